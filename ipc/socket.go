// Package ipc broadcasts download events over a unix socket so terminal
// clients can follow session progress without polling the HTTP API.
package ipc

import (
	"bufio"
	"log"
	"net"
	"os"
	"sync"

	"vidgrab/vidgrab-backend/downloader"
)

type Handler struct {
	mu      sync.Mutex
	clients []net.Conn
	events  chan downloader.Event
}

func NewHandler() *Handler {
	return &Handler{
		events: make(chan downloader.Event, 100),
	}
}

// Publish feeds one event into the broadcast queue. Never blocks the
// orchestrator: when the queue is full the event is dropped, clients can
// re-sync from the sessions API.
func (h *Handler) Publish(ev downloader.Event) {
	select {
	case h.events <- ev:
	default:
	}
}

// Listen accepts clients on the socket path and broadcasts events to all
// of them. Blocks; run it on its own goroutine.
func (h *Handler) Listen(socketPath string) error {
	os.Remove(socketPath)

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return err
	}
	defer listener.Close()

	go h.broadcast()

	for {
		conn, err := listener.Accept()
		if err != nil {
			continue
		}
		log.Printf("[IPC] Client joined")
		h.addClient(conn)
		go h.drainClient(conn)
	}
}

func (h *Handler) addClient(conn net.Conn) {
	h.mu.Lock()
	h.clients = append(h.clients, conn)
	h.mu.Unlock()
}

// drainClient discards whatever the client sends and cleans up on EOF.
func (h *Handler) drainClient(conn net.Conn) {
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("[IPC] Failed to close client: %v", err)
		}
		h.removeClient(conn)
	}()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
	}
}

func (h *Handler) removeClient(conn net.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, c := range h.clients {
		if c == conn {
			h.clients = append(h.clients[:i], h.clients[i+1:]...)
			break
		}
	}
}

func (h *Handler) broadcast() {
	for ev := range h.events {
		data, err := NewMessage(ev, MsgDownloadEvent)
		if err != nil {
			log.Printf("[IPC] Failed to encode event: %v", err)
			continue
		}
		data = append(data, '\n')

		h.mu.Lock()
		clients := append([]net.Conn(nil), h.clients...)
		h.mu.Unlock()

		for _, client := range clients {
			if _, err := client.Write(data); err != nil {
				log.Printf("[IPC] Failed to broadcast event: %v", err)
			}
		}
	}
}
