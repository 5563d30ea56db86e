package protocol

import "testing"

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrProtoBadRequest,
		ErrProtoVersion,
		ErrAuthInvalid,
		ErrAuthProvider,
		ErrAlreadyLogged,
		ErrServerFull,
		ErrBanned,
		ErrKicked,
		ErrShutdown,
		ErrTimeout,
		ErrInternal,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestDecodeBaseAndVersion(t *testing.T) {
	base, err := DecodeBase([]byte(`{"type":"OBS","protocol_version":"1.2","tick":3}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if base.Type != TypeObs || base.ProtocolVersion != Version {
		t.Fatalf("unexpected base: %+v", base)
	}
	if !IsSupportedVersion("") || !IsSupportedVersion("1.1") {
		t.Fatalf("expected empty and 1.1 supported")
	}
	if IsSupportedVersion("0.9") {
		t.Fatalf("expected 0.9 rejected")
	}
	if _, err := DecodeBase([]byte(`not json`)); err == nil {
		t.Fatalf("expected decode error")
	}
}
