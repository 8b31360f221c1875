package relay

import (
	"net/http"

	"github.com/HannahMarsh/onion-relay/internal/api/api_functions"
	"github.com/HannahMarsh/onion-relay/internal/api/structs"
)

// HandleReceiveOnion handles incoming envelopes sent to the relay.
func (n *Relay) HandleReceiveOnion(w http.ResponseWriter, r *http.Request) {
	api_functions.HandleReceiveMessage(w, r, n.Receive)
}

func (n *Relay) HandleGetLastEncrypted(w http.ResponseWriter, _ *http.Request) {
	api_functions.WriteResult(w, n.Snapshot().LastEncrypted)
}

func (n *Relay) HandleGetLastDecrypted(w http.ResponseWriter, _ *http.Request) {
	api_functions.WriteResult(w, n.Snapshot().LastDecrypted)
}

// HandleGetLastDestination reports the destination of the last envelope as a port number.
func (n *Relay) HandleGetLastDestination(w http.ResponseWriter, _ *http.Request) {
	var port *int
	if destination := n.Snapshot().LastDestination; destination != nil {
		p := destination.Port()
		port = &p
	}
	api_functions.WriteResult(w, port)
}

func (n *Relay) HandleGetLastHopResult(w http.ResponseWriter, _ *http.Request) {
	api_functions.WriteResult(w, hopResultApi(n.Snapshot().LastHop))
}

func (n *Relay) HandleGetPublicKey(w http.ResponseWriter, _ *http.Request) {
	api_functions.WriteResult(w, n.PublicKey)
}

// Routes mounts the relay endpoints on mux.
func (n *Relay) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /status", api_functions.HandleStatus)
	mux.HandleFunc("POST /message", n.HandleReceiveOnion)
	mux.HandleFunc("GET /getLastReceivedEncryptedMessage", n.HandleGetLastEncrypted)
	mux.HandleFunc("GET /getLastReceivedDecryptedMessage", n.HandleGetLastDecrypted)
	mux.HandleFunc("GET /getLastMessageDestination", n.HandleGetLastDestination)
	mux.HandleFunc("GET /getLastHopResult", n.HandleGetLastHopResult)
	mux.HandleFunc("GET /getPublicKey", n.HandleGetPublicKey)
}

func hopResultApi(hop *HopResult) *structs.HopResultApi {
	if hop == nil {
		return nil
	}
	result := &structs.HopResultApi{Destination: hop.Destination.Port(), Forwarded: hop.Forwarded}
	if hop.Err != nil {
		result.Error = hop.Err.Error()
	}
	return result
}
