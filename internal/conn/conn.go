// Package conn drives a single accepted TCP socket through the handshake,
// status, login, and play stages of the protocol.
package conn

import (
	"bytes"
	"context"
	"log"
	"net"
	"time"

	"github.com/Maxuss/soulflame/internal/chat"
	"github.com/Maxuss/soulflame/internal/config"
	"github.com/Maxuss/soulflame/internal/framer"
	"github.com/Maxuss/soulflame/internal/listener"
	"github.com/Maxuss/soulflame/internal/protocol"
	"github.com/Maxuss/soulflame/internal/wire"
)

const (
	readTimeout       = 5 * time.Second
	scratchSize       = 1024
	inboundCapacity   = 32
	outboundCapacity  = 256
	keepAliveInterval = 10 * time.Second
)

// ClientConnection drives one accepted TCP socket through the handshake
// and status/login stages. The play-stage pipeline (servePlay, readPump,
// writePump) is fully implemented and reachable once login admits a
// connection, but login itself always disconnects for now (see serveLogin).
type ClientConnection struct {
	raw     net.Conn
	cfg     *config.RuntimeConfiguration
	players *listener.PlayerCount

	enc *framer.PacketEncoder
	dec *framer.PacketDecoder

	scratch [scratchSize]byte

	username string

	inbound  chan protocol.PacketPlayIn
	outbound chan protocol.PacketPlayOut
}

// New wraps an accepted socket for the handshake/status/login/play state
// machine. cfg and players are shared across every connection the listener
// accepts.
func New(raw net.Conn, cfg *config.RuntimeConfiguration, players *listener.PlayerCount) *ClientConnection {
	return &ClientConnection{
		raw:      raw,
		cfg:      cfg,
		players:  players,
		enc:      framer.NewPacketEncoder(),
		dec:      framer.NewPacketDecoder(),
		inbound:  make(chan protocol.PacketPlayIn, inboundCapacity),
		outbound: make(chan protocol.PacketPlayOut, outboundCapacity),
	}
}

// Serve runs the connection to completion: handshake, then status or login.
// Login cryptography and session authentication are out of scope for this
// core (spec.md §1, §4.E), so a Login handshake is always answered with a
// disconnect; the play pipeline below is real and fully wired, but nothing
// in the live state machine admits a connection into it yet. A panic while
// handling malformed input is recovered so one bad connection can't take
// the listener down.
func (c *ClientConnection) Serve(ctx context.Context) {
	defer c.raw.Close()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("conn: recovered from panic: %v", r)
		}
	}()

	hs, err := readFrame(c, protocol.ReadInHandshake)
	if err != nil {
		return
	}
	packet, ok := hs.(protocol.PacketHandshakeIn)
	if !ok {
		return
	}

	switch packet.NextState {
	case protocol.HandshakeStateStatus:
		c.serveStatus()
	case protocol.HandshakeStateLogin:
		c.serveLogin()
	}
}

func (c *ClientConnection) serveStatus() {
	for {
		in, err := readFrame(c, protocol.ReadInStatus)
		if err != nil {
			return
		}
		switch p := in.(type) {
		case protocol.PacketStatusInRequest:
			resp := protocol.StatusResponse{
				Version:     protocol.ServerVersion{Name: c.cfg.Static.VersionName, Protocol: int32(protocol.ProtocolVersion)},
				Players:     protocol.ServerPlayers{Max: c.cfg.Static.MaxPlayers, Online: c.players.Get()},
				Description: chat.Text(c.cfg.Static.Motd),
				Favicon:     c.cfg.Favicon(),
			}
			if err := c.writeFrame(protocol.PacketStatusOutResponse{Response: resp}); err != nil {
				return
			}
		case protocol.PacketStatusInPing:
			if err := c.writeFrame(protocol.PacketStatusOutPong{Payload: p.Payload}); err != nil {
				return
			}
			return
		}
	}
}

// serveLogin reads the login attempt and always rejects it: session
// authentication, encryption setup, and compression negotiation are real
// cryptographic/handshake concerns this core's spec explicitly keeps out of
// scope (spec.md §1, §4.E; concrete scenario S3), so every Login handshake
// is answered with PacketLoginOutDisconnect and the connection is closed
// without ever reaching Play.
func (c *ClientConnection) serveLogin() {
	in, err := readFrame(c, protocol.ReadInLogin)
	if err != nil {
		return
	}
	start, ok := in.(protocol.PacketLoginInStart)
	if !ok {
		return
	}
	c.username = start.Name

	c.writeFrame(protocol.PacketLoginOutDisconnect{
		Reason: chat.Text("This server does not accept players yet."),
	})
}

func (c *ClientConnection) servePlay(ctx context.Context) {
	playCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	readErrs := make(chan error, 1)
	go c.readPump(playCtx, readErrs)

	writeErrs := make(chan error, 1)
	go c.writePump(playCtx, writeErrs)

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-playCtx.Done():
			return
		case err := <-readErrs:
			if err != nil {
				log.Printf("conn: %s: read error: %v", c.username, err)
			}
			return
		case err := <-writeErrs:
			if err != nil {
				log.Printf("conn: %s: write error: %v", c.username, err)
			}
			return
		case in := <-c.inbound:
			c.handlePlayIn(in)
		case now := <-keepAlive.C:
			select {
			case c.outbound <- protocol.PacketPlayOutKeepAlive{KeepAliveID: now.UnixNano()}:
			default:
				log.Printf("conn: %s: outbound channel full, dropping connection", c.username)
				return
			}
		}
	}
}

func (c *ClientConnection) handlePlayIn(in protocol.PacketPlayIn) {
	switch in.(type) {
	case protocol.PacketPlayInKeepAlive:
		// Client answered our keep-alive; nothing further to do.
	case protocol.PacketPlayInPluginMessage:
		// Plugin-channel payloads have no registered handler yet.
	}
}

func (c *ClientConnection) readPump(ctx context.Context, errs chan<- error) {
	for {
		select {
		case <-ctx.Done():
			errs <- nil
			return
		default:
		}

		c.raw.SetReadDeadline(time.Now().Add(readTimeout))
		n, err := c.raw.Read(c.scratch[:])
		if err != nil {
			errs <- wire.ClassifyReadError(n, err)
			return
		}
		c.dec.Consume(c.scratch[:n])

		for {
			in, ok, err := framer.Read(c.dec, protocol.ReadPacketPlayIn)
			if err != nil {
				errs <- err
				return
			}
			if !ok {
				break
			}
			// Blocking send is the backpressure mechanism (spec.md §3, §4.D,
			// §5): if the play loop can't keep up, this send suspends, which
			// stops draining the socket, which is exactly how the bounded
			// inbound channel is supposed to work.
			select {
			case c.inbound <- *in:
			case <-ctx.Done():
				errs <- nil
				return
			}
		}
	}
}

func (c *ClientConnection) writePump(ctx context.Context, errs chan<- error) {
	for {
		select {
		case <-ctx.Done():
			errs <- nil
			return
		case out := <-c.outbound:
			if err := c.writeFrame(out.(packetWriter)); err != nil {
				errs <- err
				return
			}
		}
	}
}

// packetWriter is implemented by every outgoing packet type: Write encodes
// the packet id and fields (but not the frame envelope) into buf.
type packetWriter interface {
	Write(buf *bytes.Buffer, protocolVersion uint32) error
}

func (c *ClientConnection) writeFrame(p packetWriter) error {
	var body bytes.Buffer
	if err := p.Write(&body, protocol.ProtocolVersion); err != nil {
		return err
	}
	framed, err := c.enc.Encode(body.Bytes())
	if err != nil {
		return err
	}
	_, err = c.raw.Write(framed)
	return err
}

// readFrame decodes one frame from c's raw socket as a T, reading more
// bytes into the scratch buffer until a complete frame is available. It is
// a free function, not a method, because Go does not allow a method to
// introduce new type parameters beyond its receiver.
func readFrame[T any](c *ClientConnection, readFn func(*wire.Cursor, uint32) (T, error)) (T, error) {
	var zero T
	for {
		v, ok, err := framer.Read(c.dec, readFn)
		if err != nil {
			return zero, err
		}
		if ok {
			return *v, nil
		}
		c.raw.SetReadDeadline(time.Now().Add(readTimeout))
		n, err := c.raw.Read(c.scratch[:])
		if err != nil {
			return zero, wire.ClassifyReadError(n, err)
		}
		c.dec.Consume(c.scratch[:n])
	}
}
