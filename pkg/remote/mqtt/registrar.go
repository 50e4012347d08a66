package mqtt

import (
	"context"
	"encoding/json"

	"github.com/golang/glog"

	"github.com/robotalks/relais.go/pkg/msgs"
	"github.com/robotalks/relais.go/pkg/remote"
)

// Meta is published retained to <ref>/meta while the device is online.
type Meta struct {
	Type        string            `json:"type"`
	ID          string            `json:"id"`
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Device      *msgs.DeviceInfo  `json:"device,omitempty"`
}

// Registrar announces a relay chain on MQTT and serves commands for it.
type Registrar struct {
	Queue   *Queue
	Ref     remote.Ref
	Service *remote.Service

	Description string
	Labels      map[string]string
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, ref remote.Ref, svc *remote.Service) (*Registrar, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+ref.Name()+"/meta", nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("relais:" + ref.Name())
	}
	r := &Registrar{
		Queue:   NewQueue(opts, topicPrefix),
		Ref:     ref,
		Service: svc,
	}
	r.Queue.OnConnect = func(*Queue) { r.publishMeta() }
	return r, nil
}

// Name implements Named.
func (r *Registrar) Name() string {
	return "mqtt:" + r.Ref.Name()
}

// Meta builds the meta published for the device.
func (r *Registrar) Meta() *Meta {
	return &Meta{
		Type:        r.Ref.Type,
		ID:          r.Ref.ID,
		Description: r.Description,
		Labels:      r.Labels,
		Device:      r.Service.Info(),
	}
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	if err := r.Queue.Connect(ctx); err != nil {
		return err
	}
	defer r.Queue.Close()

	rw := ForDevice(r.Queue, r.Ref)
	pipe := remote.NewPipe(rw, r.Service)
	errCh := make(chan error, 1)
	go func() {
		errCh <- pipe.Run(ctx)
	}()

	var err error
	select {
	case <-ctx.Done():
		rw.Close()
		<-errCh
	case err = <-errCh:
	}
	token := r.Queue.PubWith(r.Ref.Name()+"/meta", nil, 1, true)
	token.Wait()
	return err
}

func (r *Registrar) publishMeta() {
	meta, err := json.Marshal(r.Meta())
	if err != nil {
		glog.Errorf("encode meta error: %v", err)
		return
	}
	r.Queue.PubWith(r.Ref.Name()+"/meta", meta, 1, true)
}
