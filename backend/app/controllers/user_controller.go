package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"user-grid/backend/app/services"
	"user-grid/backend/global"
	"user-grid/network"
)

type UserController struct{ Users *services.UserService }

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, err := c.Users.List(r.Context())
	if err != nil {
		global.Logger.Error().Err(err).Msg("list users")
		respondMessage(w, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}
	respondData(w, http.StatusOK, "Users retrieved successfully", users)
}

func (c *UserController) Get(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		http.Error(w, "User ID is required", http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	u, err := c.Users.Get(r.Context(), uint(id))
	switch {
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "User not found", http.StatusNotFound)
	case err != nil:
		global.Logger.Error().Err(err).Uint64("id", id).Msg("get user")
		respondMessage(w, http.StatusInternalServerError, "Failed to retrieve user")
	default:
		respondData(w, http.StatusOK, "User found", *u)
	}
}

func (c *UserController) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req network.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	u, err := c.Users.Create(r.Context(), req)
	switch {
	case errors.Is(err, services.ErrValidation):
		respondMessage(w, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		global.Logger.Error().Err(err).Msg("create user")
		respondMessage(w, http.StatusInternalServerError, "Failed to create user")
	default:
		respondData(w, http.StatusCreated, "User created successfully", *u)
	}
}
