package protocol

import (
	"bytes"
	"testing"

	"github.com/Maxuss/soulflame/internal/chat"
	"github.com/Maxuss/soulflame/internal/identifier"
	"github.com/Maxuss/soulflame/internal/wire"
	"github.com/google/uuid"
)

func TestHandshakeRoundTrip(t *testing.T) {
	p := PacketHandshakeIn{
		ProtocolVersion: int32(ProtocolVersion),
		ServerAddress:   "play.example.com",
		ServerPort:      25565,
		NextState:       HandshakeStateLogin,
	}
	var buf bytes.Buffer
	if err := p.Write(&buf, ProtocolVersion); err != nil {
		t.Fatal(err)
	}
	in, err := ReadInHandshake(wire.NewCursor(buf.Bytes()), ProtocolVersion)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := in.(PacketHandshakeIn)
	if !ok {
		t.Fatalf("expected PacketHandshakeIn, got %T", in)
	}
	if got != p {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, p)
	}
}

func TestHandshakeRejectsInvalidNextState(t *testing.T) {
	var buf bytes.Buffer
	if err := wire.WriteVarInt(&buf, 0x00, ProtocolVersion); err != nil {
		t.Fatal(err)
	}
	if err := wire.WriteVarInt(&buf, int32(ProtocolVersion), ProtocolVersion); err != nil {
		t.Fatal(err)
	}
	if err := wire.WriteString(&buf, "host", ProtocolVersion); err != nil {
		t.Fatal(err)
	}
	if err := wire.WriteUint16(&buf, 25565, ProtocolVersion); err != nil {
		t.Fatal(err)
	}
	if err := wire.WriteVarInt(&buf, 99, ProtocolVersion); err != nil {
		t.Fatal(err)
	}
	_, err := ReadInHandshake(wire.NewCursor(buf.Bytes()), ProtocolVersion)
	if err == nil {
		t.Fatal("expected error for invalid next_state, got nil")
	}
}

func TestStatusRequestAndPingRoundTrip(t *testing.T) {
	var reqBuf bytes.Buffer
	if err := (PacketStatusInRequest{}).Write(&reqBuf, ProtocolVersion); err != nil {
		t.Fatal(err)
	}
	in, err := ReadInStatus(wire.NewCursor(reqBuf.Bytes()), ProtocolVersion)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := in.(PacketStatusInRequest); !ok {
		t.Fatalf("expected PacketStatusInRequest, got %T", in)
	}

	ping := PacketStatusInPing{Payload: 123456789}
	var pingBuf bytes.Buffer
	if err := ping.Write(&pingBuf, ProtocolVersion); err != nil {
		t.Fatal(err)
	}
	in2, err := ReadInStatus(wire.NewCursor(pingBuf.Bytes()), ProtocolVersion)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := in2.(PacketStatusInPing)
	if !ok || got.Payload != ping.Payload {
		t.Fatalf("got %+v, want %+v", in2, ping)
	}
}

func TestStatusResponseRoundTrip(t *testing.T) {
	resp := StatusResponse{
		Version:     ServerVersion{Name: "soulflame 759", Protocol: int32(ProtocolVersion)},
		Players:     ServerPlayers{Max: 20, Online: 3, Sample: []PlayerSample{{Name: "Notch", ID: uuid.New()}}},
		Description: chat.Text("A soulflame server").WithColor(chat.ColorGray),
		Favicon:     "",
	}
	packet := PacketStatusOutResponse{Response: resp}
	var buf bytes.Buffer
	if err := packet.Write(&buf, ProtocolVersion); err != nil {
		t.Fatal(err)
	}
	out, err := ReadOutStatus(wire.NewCursor(buf.Bytes()), ProtocolVersion)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := out.(PacketStatusOutResponse)
	if !ok {
		t.Fatalf("expected PacketStatusOutResponse, got %T", out)
	}
	if got.Response.Version.Name != resp.Version.Name || got.Response.Players.Online != resp.Players.Online {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got.Response, resp)
	}
	if len(got.Response.Players.Sample) != 1 || got.Response.Players.Sample[0].Name != "Notch" {
		t.Fatalf("sample list mismatch: %+v", got.Response.Players.Sample)
	}
}

func TestLoginStartRoundTrip(t *testing.T) {
	p := PacketLoginInStart{Name: "Notch"}
	var buf bytes.Buffer
	if err := p.Write(&buf, ProtocolVersion); err != nil {
		t.Fatal(err)
	}
	in, err := ReadInLogin(wire.NewCursor(buf.Bytes()), ProtocolVersion)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := in.(PacketLoginInStart)
	if !ok || got.Name != "Notch" || got.PublicKey != nil {
		t.Fatalf("got %+v", got)
	}
}

func TestLoginSuccessRoundTrip(t *testing.T) {
	p := PacketLoginOutSuccess{
		PlayerUUID: uuid.New(),
		Username:   "Notch",
		Properties: []ProfileProperty{{Name: "textures", Value: "base64data"}},
	}
	var buf bytes.Buffer
	if err := p.Write(&buf, ProtocolVersion); err != nil {
		t.Fatal(err)
	}
	out, err := ReadOutLogin(wire.NewCursor(buf.Bytes()), ProtocolVersion)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := out.(PacketLoginOutSuccess)
	if !ok {
		t.Fatalf("expected PacketLoginOutSuccess, got %T", out)
	}
	if got.PlayerUUID != p.PlayerUUID || got.Username != p.Username || len(got.Properties) != 1 {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, p)
	}
}

func TestLoginDisconnectRoundTrip(t *testing.T) {
	p := PacketLoginOutDisconnect{Reason: chat.Text("Server is full").WithColor(chat.ColorRed)}
	var buf bytes.Buffer
	if err := p.Write(&buf, ProtocolVersion); err != nil {
		t.Fatal(err)
	}
	out, err := ReadOutLogin(wire.NewCursor(buf.Bytes()), ProtocolVersion)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := out.(PacketLoginOutDisconnect)
	if !ok || got.Reason.Text != p.Reason.Text {
		t.Fatalf("got %+v, want %+v", out, p)
	}
}

func TestLoginPluginMessageRoundTrip(t *testing.T) {
	channel, err := identifier.Minecraft("brand")
	if err != nil {
		t.Fatal(err)
	}
	p := PacketLoginOutPluginMessage{MessageID: 7, Channel: channel, Message: []byte("soulflame")}
	var buf bytes.Buffer
	if err := p.Write(&buf, ProtocolVersion); err != nil {
		t.Fatal(err)
	}
	out, err := ReadOutLogin(wire.NewCursor(buf.Bytes()), ProtocolVersion)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := out.(PacketLoginOutPluginMessage)
	if !ok || got.MessageID != 7 || got.Channel != channel || string(got.Message) != "soulflame" {
		t.Fatalf("got %+v", out)
	}
}

func TestPlayKeepAliveRoundTrip(t *testing.T) {
	out := PacketPlayOutKeepAlive{KeepAliveID: 987654321}
	var buf bytes.Buffer
	if err := out.Write(&buf, ProtocolVersion); err != nil {
		t.Fatal(err)
	}
	parsed, err := ReadPacketPlayOut(wire.NewCursor(buf.Bytes()), ProtocolVersion)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := parsed.(PacketPlayOutKeepAlive)
	if !ok || got.KeepAliveID != out.KeepAliveID {
		t.Fatalf("got %+v, want %+v", parsed, out)
	}

	in := PacketPlayInKeepAlive{KeepAliveID: 987654321}
	var inBuf bytes.Buffer
	if err := in.Write(&inBuf, ProtocolVersion); err != nil {
		t.Fatal(err)
	}
	parsedIn, err := ReadPacketPlayIn(wire.NewCursor(inBuf.Bytes()), ProtocolVersion)
	if err != nil {
		t.Fatal(err)
	}
	gotIn, ok := parsedIn.(PacketPlayInKeepAlive)
	if !ok || gotIn.KeepAliveID != in.KeepAliveID {
		t.Fatalf("got %+v, want %+v", parsedIn, in)
	}
}

func TestPlayDisconnectHasDocumentedPacketID(t *testing.T) {
	if (PacketPlayOutDisconnect{}).PacketID() != 0x17 {
		t.Fatalf("PacketPlayOutDisconnect id = %#x, want 0x17", (PacketPlayOutDisconnect{}).PacketID())
	}
}

func TestUnknownPacketIDFails(t *testing.T) {
	var buf bytes.Buffer
	if err := wire.WriteVarInt(&buf, 0x7f, ProtocolVersion); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadInStatus(wire.NewCursor(buf.Bytes()), ProtocolVersion); err == nil {
		t.Fatal("expected error for unknown status packet id, got nil")
	}
	if _, err := ReadInLogin(wire.NewCursor(buf.Bytes()), ProtocolVersion); err == nil {
		t.Fatal("expected error for unknown login packet id, got nil")
	}
	if _, err := ReadPacketPlayIn(wire.NewCursor(buf.Bytes()), ProtocolVersion); err == nil {
		t.Fatal("expected error for unknown play packet id, got nil")
	}
}
