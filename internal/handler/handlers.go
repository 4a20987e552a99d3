package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/DanielSzakacs/OE-school-competition/internal/ws"
	"go.uber.org/zap"
)

func RegisterHandlers(mux *http.ServeMux, hub *ws.Hub, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	})

	mux.HandleFunc("/seats/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			log.Warn("method not allowed", zap.String("path", r.URL.Path), zap.String("method", r.Method))
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		token := strings.TrimPrefix(r.URL.Path, "/seats/")
		seat, ok := SeatForToken(token)
		if !ok {
			log.Warn("unknown seat token", zap.String("token", token))
			http.Error(w, "unknown token", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]int{"seat": seat})
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		log.Info("ws connect attempt", zap.String("remote", r.RemoteAddr))
		hub.ServeWS(w, r)
	})
}
