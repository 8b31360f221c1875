package user

import (
	"log/slog"
	"net/http"

	"github.com/HannahMarsh/onion-relay/internal/api/api_functions"
	"github.com/HannahMarsh/onion-relay/internal/api/structs"
)

// HandleReceive accepts a delivered message.
func (c *User) HandleReceive(w http.ResponseWriter, r *http.Request) {
	api_functions.HandleReceiveMessage(w, r, c.ReceiveMessage)
}

// HandleSendMessage processes POST /sendMessage.
func (c *User) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var body structs.SendMessageApi
	if err := api_functions.ReadJSON(w, r, &body); err != nil {
		slog.Error("Error decoding send request", "err", err)
		api_functions.WriteError(w, err)
		return
	}

	result, err := c.SendMessage(r.Context(), body.Message, body.DestinationUserID)
	if err != nil {
		slog.Error("Error sending message", "user", c.ID, "err", err)
		api_functions.WriteError(w, err)
		return
	}
	api_functions.WriteJSON(w, http.StatusOK, structs.SendResultApi{
		MessageID: result.Message.ID,
		Circuit:   result.Circuit.IDs(),
		Entry:     result.Entry().ID,
	})
}

func (c *User) HandleGetLastReceived(w http.ResponseWriter, _ *http.Request) {
	api_functions.WriteResult(w, c.Snapshot().LastReceived)
}

func (c *User) HandleGetLastSent(w http.ResponseWriter, _ *http.Request) {
	api_functions.WriteResult(w, c.Snapshot().LastSent)
}

func (c *User) HandleGetLastCircuit(w http.ResponseWriter, _ *http.Request) {
	circuit := c.Snapshot().LastCircuit
	if circuit == nil {
		circuit = []int{}
	}
	api_functions.WriteResult(w, circuit)
}

// Routes mounts the user endpoints on mux.
func (c *User) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /status", api_functions.HandleStatus)
	mux.HandleFunc("POST /message", c.HandleReceive)
	mux.HandleFunc("POST /sendMessage", c.HandleSendMessage)
	mux.HandleFunc("GET /getLastReceivedMessage", c.HandleGetLastReceived)
	mux.HandleFunc("GET /getLastSentMessage", c.HandleGetLastSent)
	mux.HandleFunc("GET /getLastCircuit", c.HandleGetLastCircuit)
}
