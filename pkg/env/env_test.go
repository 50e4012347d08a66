package env

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/relais.go/pkg/relais"
	"github.com/robotalks/relais.go/pkg/relais/relaistest"
	"github.com/robotalks/relais.go/pkg/remote"
	"github.com/robotalks/relais.go/pkg/remote/mqtt"
	"github.com/robotalks/relais.go/pkg/remote/stream"
)

func newService() *remote.Service {
	return remote.NewService(relais.New(relaistest.NewChain(1), relais.WithDelay(0)))
}

func TestParseLabels(t *testing.T) {
	require.Equal(t, map[string]string{
		"room":  "lab",
		"floor": "2",
		"spare": "",
	}, ParseLabels(" room=lab, floor = 2,,spare"))
	require.Empty(t, ParseLabels(""))
}

func TestNewEnvRequiresEndpoint(t *testing.T) {
	conf := &Config{Ref: remote.Ref{Type: DefaultType, ID: "x"}}
	_, err := conf.NewEnv(newService())
	require.Error(t, err)
}

func TestNewEnvEndpoints(t *testing.T) {
	conf := &Config{
		Ref:           remote.Ref{Type: DefaultType, ID: "dev1"},
		Description:   "test",
		Labels:        "room=lab",
		ListenAddr:    "127.0.0.1:0",
		HTTPAddr:      "127.0.0.1:0",
		MQTTBrokerURL: "mqtt://127.0.0.1:1883/relais/",
	}
	env, err := conf.NewEnv(newService())
	require.NoError(t, err)
	require.Len(t, env.Runnables, 3)

	server, ok := env.Runnables[0].(*stream.Server)
	require.True(t, ok)
	defer server.Listener.Close()

	reg, ok := env.Runnables[2].(*mqtt.Registrar)
	require.True(t, ok)
	require.Equal(t, "relais/", reg.Queue.TopicPrefix)
	meta := reg.Meta()
	require.Equal(t, "dev1", meta.ID)
	require.Equal(t, "test", meta.Description)
	require.Equal(t, map[string]string{"room": "lab"}, meta.Labels)
	require.Equal(t, uint32(1), meta.Device.Boards)
}
