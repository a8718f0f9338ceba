package formats

import (
	"errors"
	"reflect"
	"testing"

	"github.com/danmuck/zwalletctl/internal/testutil/testlog"
	"github.com/danmuck/zwalletctl/internal/wallet"
)

type fakeAdapter struct {
	meta Metadata
}

func (f fakeAdapter) Metadata() Metadata {
	return f.meta
}

func (f fakeAdapter) Parse(raw []byte) (*wallet.Wallet, error) {
	return wallet.New(f.meta.ID, ""), nil
}

func (f fakeAdapter) Write(w *wallet.Wallet) ([]byte, error) {
	return nil, nil
}

func TestRegisterResolveAndDuplicate(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	a := fakeAdapter{meta: Metadata{ID: "zwl", Name: "ZecWallet Lite", Description: "binary wallet"}}

	if err := r.Register(a); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(a); !errors.Is(err, ErrFormatExists) {
		t.Fatalf("expected ErrFormatExists, got %v", err)
	}
	got, err := r.Resolve(" ZWL ")
	if err != nil || got.Metadata().ID != "zwl" {
		t.Fatalf("resolve failed: err=%v", err)
	}
}

func TestRegisterTrimsID(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	padded := fakeAdapter{meta: Metadata{ID: " ywallet ", Name: "YWallet", Description: "sqlite wallet"}}

	if err := r.Register(padded); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !reflect.DeepEqual(r.IDs(), []string{"ywallet"}) {
		t.Fatalf("id not trimmed: %q", r.IDs())
	}
	if _, err := r.Resolve("ywallet"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	plain := fakeAdapter{meta: Metadata{ID: "ywallet", Name: "YWallet", Description: "sqlite wallet"}}
	if err := r.Register(plain); !errors.Is(err, ErrFormatExists) {
		t.Fatalf("expected ErrFormatExists, got %v", err)
	}
}

func TestResolveMissingFormat(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	_ = r.Register(fakeAdapter{meta: Metadata{ID: "portable", Name: "P", Description: "p"}})
	_, err := r.Resolve("electrum")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestListMetadataSorted(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	_ = r.Register(fakeAdapter{meta: Metadata{ID: "zwl", Name: "Z", Description: "z"}})
	_ = r.Register(fakeAdapter{meta: Metadata{ID: "portable", Name: "P", Description: "p"}})
	_ = r.Register(fakeAdapter{meta: Metadata{ID: "ywallet", Name: "Y", Description: "y"}})

	list := r.ListMetadata()
	ids := []string{list[0].ID, list[1].ID, list[2].ID}
	want := []string{"portable", "ywallet", "zwl"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("metadata not sorted: got=%v want=%v", ids, want)
	}
	if !reflect.DeepEqual(r.IDs(), want) {
		t.Fatalf("ids not sorted: got=%v", r.IDs())
	}
}

func TestValidateMetadataFailures(t *testing.T) {
	testlog.Start(t)
	cases := []Metadata{
		{ID: "", Name: "Z", Description: "x"},
		{ID: "zwl", Name: "", Description: "x"},
		{ID: "zwl", Name: "Z", Description: ""},
		{ID: "ZWL", Name: "Z", Description: "x"},
		{ID: ".zwl", Name: "Z", Description: "x"},
		{ID: "zwl..v2", Name: "Z", Description: "x"},
	}
	for _, meta := range cases {
		if err := ValidateMetadata(meta); !errors.Is(err, ErrInvalidMetadata) {
			t.Fatalf("expected ErrInvalidMetadata for meta=%+v, got %v", meta, err)
		}
	}
}

func TestRegisterNilAdapter(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	if err := r.Register(nil); !errors.Is(err, ErrAdapterNil) {
		t.Fatalf("expected ErrAdapterNil, got %v", err)
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	testlog.Start(t)
	o := Options{}.WithDefaults()
	if o.Deriver == nil || o.Limits.MaxSequenceLen == 0 || o.Network == "" {
		t.Fatalf("defaults not applied: %+v", o)
	}
}
