package server

import (
	"fmt"
	"net/http"
	"time"
)

// streamHandler serves the latest published frame as MJPEG. It never
// touches the camera; the frame loop is the only producer.
type streamHandler struct {
	server *Server
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *streamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var lastSeq uint64

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		frame, seq := h.server.latestFrame()
		if len(frame) == 0 || seq == lastSeq {
			time.Sleep(33 * time.Millisecond)
			continue
		}
		lastSeq = seq

		// Write MJPEG part
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(frame))
		if _, err := w.Write(frame); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(33 * time.Millisecond)
	}
}
