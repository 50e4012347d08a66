// Package websocket serves remote peers over WebSocket.
package websocket

import (
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/relais.go/pkg/remote"
)

// ReadWriter implements PacketReadWriter.
type ReadWriter websocket.Conn

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return (*ReadWriter)(conn)
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(p), &pkt)
	return
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	return websocket.Message.Send((*websocket.Conn)(p), pkt)
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	return (*websocket.Conn)(p).Close()
}

// Handler serves each WebSocket connection with a remote.Pipe.
func Handler(svc *remote.Service) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		peer := conn.Request().RemoteAddr
		glog.V(1).Infof("%s connected", peer)
		err := remote.NewPipe(New(conn), svc).Run(conn.Request().Context())
		glog.V(1).Infof("%s disconnected: %v", peer, err)
	})
}
