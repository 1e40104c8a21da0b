package handler

import (
	"errors"
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"roomhub/internal/app/live"
	"roomhub/internal/app/store"
	"roomhub/internal/pkg/errs"
	"roomhub/internal/pkg/limiter"
	"roomhub/internal/pkg/logx"
	"roomhub/internal/pkg/resp"
)

// HandleWebSocket upgrades the connection and streams the room's new
// messages to the subscriber until either side hangs up.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("websocket connection rejected: rate limit exceeded", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		roomID, idErr := roomIDParam(r)
		if idErr != nil {
			resp.RespondError(w, r, idErr)
			return
		}

		if _, err := deps.Stores.Rooms.GetByID(r.Context(), roomID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
				return
			}
			logx.Error(err, "failed to fetch room for websocket", "room_id", roomID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "failed to upgrade connection to websocket")
			return
		}

		sub := deps.Hub.Subscribe(roomID)
		if sub == nil {
			// Hub is shutting down.
			_ = conn.Close()
			return
		}

		client := live.NewClient(conn, sub, roomID.String())

		go client.WritePump()

		logx.Info("websocket subscriber connected", "room_id", roomID.String())

		client.ReadPump()
	}
}
