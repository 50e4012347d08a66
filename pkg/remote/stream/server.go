// Package stream serves remote peers over length-prefixed byte streams.
package stream

import (
	"context"
	"net"

	"github.com/golang/glog"

	fx "github.com/robotalks/relais.go/pkg/framework"
	"github.com/robotalks/relais.go/pkg/remote"
)

// Server accepts stream connections, e.g. TCP, and serves each
// with a remote.Pipe.
type Server struct {
	Listener net.Listener
	Service  *remote.Service
}

// Listen creates a Server listening on a TCP address.
func Listen(addr string, svc *remote.Service) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{Listener: ln, Service: svc}, nil
}

// Name implements Named.
func (s *Server) Name() string {
	return "stream:" + s.Listener.Addr().String()
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	glog.Infof("listening on %s", s.Listener.Addr())
	return fx.RunWithContextCloser(ctx, s.Listener, func() error {
		for {
			conn, err := s.Listener.Accept()
			if err != nil {
				return err
			}
			go s.serve(ctx, conn)
		}
	})
}

func (s *Server) serve(ctx context.Context, conn net.Conn) {
	peer := conn.RemoteAddr()
	glog.V(1).Infof("%s connected", peer)
	pipe := remote.NewPipe(New(conn), s.Service)
	err := fx.RunWithContextCloser(ctx, conn, func() error {
		return pipe.Run(ctx)
	})
	glog.V(1).Infof("%s disconnected: %v", peer, err)
}
