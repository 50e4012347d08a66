// Package env assembles the endpoints serving a relay chain.
package env

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/golang/glog"

	fx "github.com/robotalks/relais.go/pkg/framework"
	"github.com/robotalks/relais.go/pkg/remote"
	"github.com/robotalks/relais.go/pkg/remote/mqtt"
	"github.com/robotalks/relais.go/pkg/remote/stream"
	"github.com/robotalks/relais.go/pkg/remote/websocket"
)

// DefaultType is the device type announced to remote peers.
const DefaultType = "conrad-197720"

// Config provides the options of the remote endpoints.
type Config struct {
	Ref         remote.Ref
	Description string
	// Labels are comma separated key=value pairs published in meta.
	Labels string

	// ListenAddr is the TCP address for stream peers.
	ListenAddr string
	// HTTPAddr is the address serving websocket peers on /ws.
	HTTPAddr string
	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
}

var defaultConfig = Config{
	Ref:         remote.Ref{Type: DefaultType},
	Description: "Conrad 197720 relay cards",
}

func init() {
	if val := os.Getenv("RELAIS_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("RELAIS_LISTEN"); val != "" {
		defaultConfig.ListenAddr = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Ref.Type, "type", defaultConfig.Ref.Type, "Device type")
	flag.StringVar(&defaultConfig.Ref.ID, "id", defaultConfig.Ref.ID, "Device ID, machine ID if empty")
	flag.StringVar(&defaultConfig.Description, "description", defaultConfig.Description, "Device description")
	flag.StringVar(&defaultConfig.Labels, "labels", defaultConfig.Labels, "Labels as key=value,...")
	flag.StringVar(&defaultConfig.ListenAddr, "listen", defaultConfig.ListenAddr, "TCP address for stream peers")
	flag.StringVar(&defaultConfig.HTTPAddr, "http", defaultConfig.HTTPAddr, "HTTP address for websocket peers")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// ParseLabels parses comma separated key=value pairs.
func ParseLabels(s string) map[string]string {
	labels := make(map[string]string)
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item == "" {
			continue
		}
		kv := strings.SplitN(item, "=", 2)
		if len(kv) == 2 {
			labels[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		} else {
			labels[kv[0]] = ""
		}
	}
	return labels
}

// Env holds the endpoints serving a Service.
type Env struct {
	Config    *Config
	Service   *remote.Service
	Runnables []fx.Runnable
}

// NewEnv creates Env from config. Endpoints are created but not started.
func (c *Config) NewEnv(svc *remote.Service) (*Env, error) {
	env := &Env{Config: c, Service: svc}
	if c.ListenAddr != "" {
		server, err := stream.Listen(c.ListenAddr, svc)
		if err != nil {
			return nil, fmt.Errorf("listen %s error: %v", c.ListenAddr, err)
		}
		env.Runnables = append(env.Runnables, server)
	}
	if c.HTTPAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/ws", websocket.Handler(svc))
		server := &http.Server{Addr: c.HTTPAddr, Handler: mux}
		env.Runnables = append(env.Runnables, fx.NamedRun("http:"+c.HTTPAddr, fx.RunFunc(func(ctx context.Context) error {
			glog.Infof("serving websocket on %s", c.HTTPAddr)
			err := fx.RunWithContextCloser(ctx, server, server.ListenAndServe)
			if err == http.ErrServerClosed {
				return nil
			}
			return err
		})))
	}
	if c.MQTTBrokerURL != "" {
		ref := c.Ref
		if ref.ID == "" {
			ref.ID = MachineID()
		}
		if !ref.IsValid() {
			return nil, fmt.Errorf("device type and id must be specified")
		}
		reg, err := mqtt.NewRegistrar(c.MQTTBrokerURL, ref, svc)
		if err != nil {
			return nil, fmt.Errorf("create MQTT registrar error: %v", err)
		}
		reg.Description = c.Description
		if c.Labels != "" {
			reg.Labels = ParseLabels(c.Labels)
		}
		env.Runnables = append(env.Runnables, reg)
	}
	if len(env.Runnables) == 0 {
		return nil, fmt.Errorf("at least one of -listen, -http, -mqtt is required")
	}
	return env, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv(svc *remote.Service) *Env {
	env, err := c.NewEnv(svc)
	if err != nil {
		log.Fatalln(err)
	}
	return env
}
