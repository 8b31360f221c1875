package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HannahMarsh/onion-relay/config"
	"github.com/HannahMarsh/onion-relay/internal/api/api_functions"
	"github.com/HannahMarsh/onion-relay/internal/api/structs"
	"github.com/HannahMarsh/onion-relay/internal/domain/models"
)

func TestLoopbackForward(t *testing.T) {
	network := NewLoopback()
	var got string
	network.Attach("0000003007", func(_ context.Context, message string) error {
		got = message
		return nil
	})

	require.NoError(t, network.Forward(context.Background(), "0000003007", "hello"))
	assert.Equal(t, "hello", got)

	err := network.Forward(context.Background(), "0000003008", "hello")
	require.ErrorIs(t, err, models.ErrNotFound)

	network.Detach("0000003007")
	require.ErrorIs(t, network.Forward(context.Background(), "0000003007", "x"), models.ErrNotFound)
}

func serverConfig(t *testing.T, server *httptest.Server) (*config.Config, int) {
	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Host = u.Hostname()
	cfg.Directory.Host = u.Hostname()
	cfg.Directory.Port = port
	cfg.ForwardTimeout = 5 * time.Second
	return cfg, port
}

func TestHTTPForwarder(t *testing.T) {
	received := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/message", r.URL.Path)
		assert.Equal(t, "gzip", r.Header.Get("Content-Encoding"))
		api_functions.HandleReceiveMessage(w, r, func(_ context.Context, message string) error {
			received <- message
			return nil
		})
	}))
	defer server.Close()

	cfg, port := serverConfig(t, server)
	forwarder := NewHTTPForwarder(cfg)

	require.NoError(t, forwarder.Forward(context.Background(), models.EncodeAddress(port), "envelope"))
	assert.Equal(t, "envelope", <-received)
}

func TestHTTPForwarderRejectsBadAddress(t *testing.T) {
	forwarder := NewHTTPForwarder(config.Default())
	err := forwarder.Forward(context.Background(), "9999999999", "x")
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestHTTPForwarderMapsRemoteStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "empty message", http.StatusBadRequest)
	}))
	defer server.Close()

	cfg, port := serverConfig(t, server)
	err := NewHTTPForwarder(cfg).Forward(context.Background(), models.EncodeAddress(port), "")
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestHTTPDirectoryClient(t *testing.T) {
	var registered []models.NodeRecord
	mux := http.NewServeMux()
	mux.HandleFunc("POST /registerNode", func(w http.ResponseWriter, r *http.Request) {
		var body structs.RegisterNodeApi
		if err := api_functions.ReadJSON(w, r, &body); err != nil {
			api_functions.WriteError(w, err)
			return
		}
		registered = append(registered, body.Record())
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /getNodeRegistry", func(w http.ResponseWriter, _ *http.Request) {
		api_functions.WriteJSON(w, http.StatusOK, structs.NodeRegistryApi{Nodes: registered})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg, _ := serverConfig(t, server)
	client := NewHTTPDirectoryClient(cfg)
	ctx := context.Background()

	require.NoError(t, client.RegisterNode(ctx, models.NodeRecord{ID: 1, PublicKey: "k1"}))
	require.NoError(t, client.RegisterNode(ctx, models.NodeRecord{ID: 2, PublicKey: "k2"}))

	nodes, err := client.ListNodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.NodeRecord{{ID: 1, PublicKey: "k1"}, {ID: 2, PublicKey: "k2"}}, nodes)
}
