package eip712

import (
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	testDomain = Domain{Name: "dYdX", Version: "1.0", ChainID: 1}
	testStruct = NewStruct("dYdX", "action", "onlySignOn")
	testValues = map[string]string{
		"action":     "dYdX Onboarding",
		"onlySignOn": "https://trade.dydx.exchange",
	}
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		name string
		s    Struct
		want string
	}{
		{"primary onboarding", testStruct, "dYdX(string action,string onlySignOn)"},
		{"testnet onboarding", NewStruct("dYdX", "action"), "dYdX(string action)"},
		{
			"request",
			NewStruct("dYdX", "method", "requestPath", "body", "timestamp"),
			"dYdX(string method,string requestPath,string body,string timestamp)",
		},
		{"no fields", NewStruct("Empty"), "Empty()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.TypeString(); got != tt.want {
				t.Errorf("TypeString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDomainHashMatchesGoEthereum(t *testing.T) {
	for _, chainID := range []int64{1, 5, 11155111} {
		domain := Domain{Name: "dYdX", Version: "1.0", ChainID: chainID}
		td := NewTypedData(domain, testStruct, testValues).APITypes()

		want, err := td.HashStruct("EIP712Domain", td.Domain.Map())
		if err != nil {
			t.Fatalf("go-ethereum domain hash: %v", err)
		}
		if got := domain.Hash(); got != common.BytesToHash(want) {
			t.Errorf("chain %d: Hash() = %s, want %x", chainID, got.Hex(), want)
		}
	}
}

func TestDigestMatchesTypedDataHash(t *testing.T) {
	structHash, err := testStruct.Hash(testValues)
	if err != nil {
		t.Fatalf("struct hash: %v", err)
	}
	digest := Digest(testDomain.Hash(), structHash)

	want, err := NewTypedData(testDomain, testStruct, testValues).Hash()
	if err != nil {
		t.Fatalf("typed data hash: %v", err)
	}
	if digest != want {
		t.Errorf("Digest() = %s, want %s", digest.Hex(), want.Hex())
	}
}

func TestDigestDependsOnChain(t *testing.T) {
	structHash, err := testStruct.Hash(testValues)
	if err != nil {
		t.Fatalf("struct hash: %v", err)
	}
	goerli := Domain{Name: "dYdX", Version: "1.0", ChainID: 5}
	if Digest(testDomain.Hash(), structHash) == Digest(goerli.Hash(), structHash) {
		t.Error("digest does not bind the chain id")
	}
}

func TestStructHash(t *testing.T) {
	want := crypto.Keccak256Hash(
		crypto.Keccak256([]byte("dYdX(string action,string onlySignOn)")),
		crypto.Keccak256([]byte("dYdX Onboarding")),
		crypto.Keccak256([]byte("https://trade.dydx.exchange")),
	)
	got, err := testStruct.Hash(testValues)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Hash() = %s, want %s", got.Hex(), want.Hex())
	}
}

func TestStructValues(t *testing.T) {
	tests := []struct {
		name    string
		s       Struct
		values  map[string]string
		want    []string
		wantErr error
	}{
		{
			name:   "ordered by struct",
			s:      testStruct,
			values: map[string]string{"onlySignOn": "b", "action": "a"},
			want:   []string{"a", "b"},
		},
		{
			name:   "empty string is present",
			s:      NewStruct("dYdX", "body"),
			values: map[string]string{"body": ""},
			want:   []string{""},
		},
		{
			name:    "missing field",
			s:       testStruct,
			values:  map[string]string{"action": "a"},
			wantErr: ErrMissingField,
		},
		{
			name:    "unexpected field",
			s:       NewStruct("dYdX", "action"),
			values:  map[string]string{"action": "a", "onlySignOn": "b"},
			wantErr: ErrUnexpectedField,
		},
		{
			name:    "unsupported type",
			s:       Struct{PrimaryType: "dYdX", Fields: []Field{{Name: "amount", Type: "uint256"}}},
			values:  map[string]string{"amount": "1"},
			wantErr: ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.s.Values(tt.values)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("value %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTypedDataJSON(t *testing.T) {
	got, err := NewTypedData(Domain{Name: "dYdX", Version: "1.0", ChainID: 5}, NewStruct("dYdX", "action"), map[string]string{"action": "dYdX Onboarding"}).JSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"types":{"EIP712Domain":[{"name":"name","type":"string"},{"name":"version","type":"string"},{"name":"chainId","type":"uint256"}],"dYdX":[{"name":"action","type":"string"}]},` +
		`"domain":{"name":"dYdX","version":"1.0","chainId":5},"primaryType":"dYdX","message":{"action":"dYdX Onboarding"}}`
	if got != want {
		t.Errorf("JSON() =\n%s\nwant\n%s", got, want)
	}
}

func TestPersonalMessage(t *testing.T) {
	got, err := PersonalMessage(testDomain, map[string]string{
		"onlySignOn": "https://trade.dydx.exchange",
		"action":     "dYdX <Onboarding> & \"more\"",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\n" +
		"  \"name\": \"dYdX\",\n" +
		"  \"version\": \"1.0\",\n" +
		"  \"chainId\": 1,\n" +
		"  \"action\": \"dYdX <Onboarding> & \\\"more\\\"\",\n" +
		"  \"onlySignOn\": \"https://trade.dydx.exchange\"\n" +
		"}"
	if got != want {
		t.Errorf("PersonalMessage() =\n%s\nwant\n%s", got, want)
	}
}

func TestPersonalMessageQuoting(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"line separator", "a\u2028b", "\"a\u2028b\""},
		{"paragraph separator", "a\u2029b", "\"a\u2029b\""},
		{"literal backslash-u text stays escaped", `a\u2028b`, `"a\\u2028b"`},
		{"backslash then line separator", "a\\\u2028", "\"a\\\\\u2028\""},
		{"control characters stay escaped", "a\tb\n", `"a\tb\n"`},
		{"non-ascii kept raw", "dYdX é", "\"dYdX é\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PersonalMessage(testDomain, map[string]string{"action": tt.value})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			line := "  \"action\": " + tt.want + "\n"
			if !strings.Contains(got, line) {
				t.Errorf("PersonalMessage() =\n%s\nwant line %q", got, line)
			}
		})
	}
}
