package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/edu-bridge/edubridge-lms/internal/assignment"
	auth "github.com/edu-bridge/edubridge-lms/internal/auth/middleware"
	"github.com/edu-bridge/edubridge-lms/internal/store"
)

func sanitizeUser(u assignment.User) assignment.User {
	u.PasswordHash = ""
	return u
}

// GET /users?role=STUDENT
func ListUsersHandler(repo *assignment.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := r.URL.Query().Get("role")
		var raws []json.RawMessage
		var err error
		if role != "" {
			raws, err = repo.DB.QueryByField(r.Context(), store.ColUsers, "role", role)
		} else {
			raws, err = repo.DB.GetAll(r.Context(), store.ColUsers)
		}
		if err != nil {
			http.Error(w, "load users: "+err.Error(), http.StatusInternalServerError)
			return
		}
		users, err := store.DecodeAll[assignment.User](raws)
		if err != nil {
			http.Error(w, "decode users: "+err.Error(), http.StatusInternalServerError)
			return
		}
		out := make([]assignment.User, 0, len(users))
		for _, u := range users {
			out = append(out, sanitizeUser(u))
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

type userUpsertReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	School   string `json:"school"`
	Grade    string `json:"grade"`
	Phone    string `json:"phone"`
}

// POST /users
func CreateUserHandler(repo *assignment.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userUpsertReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Username == "" || req.Name == "" {
			http.Error(w, "username and name required", http.StatusBadRequest)
			return
		}
		if req.Role == "" {
			req.Role = assignment.RoleStudent
		}
		if req.Password == "" {
			req.Password = "123" // classroom default, students change it later
		}
		if _, err := repo.UserByUsername(r.Context(), req.Username); err == nil {
			http.Error(w, "username taken", http.StatusConflict)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "hash password", http.StatusInternalServerError)
			return
		}
		u := assignment.User{
			Username:     req.Username,
			Name:         req.Name,
			Role:         req.Role,
			PasswordHash: string(hash),
			School:       req.School,
			Grade:        req.Grade,
			Phone:        req.Phone,
		}
		id, err := repo.DB.Add(r.Context(), store.ColUsers, u)
		if err != nil {
			http.Error(w, "save user: "+err.Error(), http.StatusInternalServerError)
			return
		}
		u.ID = id
		_ = json.NewEncoder(w).Encode(sanitizeUser(u))
	}
}

// PUT /users/{userID} — name/school/grade/phone, plus password when given.
func UpdateUserHandler(repo *assignment.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userUpsertReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		partial := map[string]any{}
		if req.Name != "" {
			partial["name"] = req.Name
		}
		if req.School != "" {
			partial["school"] = req.School
		}
		if req.Grade != "" {
			partial["grade"] = req.Grade
		}
		if req.Phone != "" {
			partial["phone"] = req.Phone
		}
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				http.Error(w, "hash password", http.StatusInternalServerError)
				return
			}
			partial["passwordHash"] = string(hash)
		}
		if len(partial) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := repo.DB.Update(r.Context(), store.ColUsers, chi.URLParam(r, "userID"), partial); err != nil {
			http.Error(w, "update user: "+err.Error(), statusForStoreErr(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DELETE /users/{userID} — deleting your own account is refused.
func DeleteUserHandler(repo *assignment.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "userID")
		if id == auth.SubjectFromContext(r.Context()) {
			http.Error(w, "cannot delete own account", http.StatusBadRequest)
			return
		}
		if err := repo.DB.Delete(r.Context(), store.ColUsers, id); err != nil {
			http.Error(w, "delete user: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
