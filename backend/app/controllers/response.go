package controllers

import (
	"encoding/json"
	"net/http"

	"user-grid/backend/global"
	"user-grid/network"
)

func respondJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		global.Logger.Error().Err(err).Msg("marshal response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func respondData[T any](w http.ResponseWriter, code int, message string, data T) {
	respondJSON(w, code, network.Response[T]{Message: message, Data: &data})
}

func respondMessage(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, network.Response[struct{}]{Message: message})
}
