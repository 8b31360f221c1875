package directory

import (
	"log/slog"
	"net/http"

	"github.com/HannahMarsh/onion-relay/internal/api/api_functions"
	"github.com/HannahMarsh/onion-relay/internal/api/structs"
	"github.com/HannahMarsh/onion-relay/internal/domain/models"
)

// HandleRegisterNode processes POST /registerNode.
func (d *Directory) HandleRegisterNode(w http.ResponseWriter, r *http.Request) {
	var body structs.RegisterNodeApi
	if err := api_functions.ReadJSON(w, r, &body); err != nil {
		slog.Error("Error decoding node registration request", "err", err)
		api_functions.WriteError(w, err)
		return
	}

	if err := d.RegisterNode(body.NodeID, body.PubKey); err != nil {
		slog.Error("Error registering node", "id", body.NodeID, "err", err)
		api_functions.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleGetNodeRegistry processes GET /getNodeRegistry.
func (d *Directory) HandleGetNodeRegistry(w http.ResponseWriter, _ *http.Request) {
	nodes, err := d.ListNodes()
	if err != nil {
		slog.Error("Error listing nodes", "err", err)
		api_functions.WriteError(w, err)
		return
	}
	if nodes == nil {
		nodes = []models.NodeRecord{}
	}
	api_functions.WriteJSON(w, http.StatusOK, structs.NodeRegistryApi{Nodes: nodes})
}

// Routes mounts the directory endpoints on mux.
func (d *Directory) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /status", api_functions.HandleStatus)
	mux.HandleFunc("POST /registerNode", d.HandleRegisterNode)
	mux.HandleFunc("GET /getNodeRegistry", d.HandleGetNodeRegistry)
}
