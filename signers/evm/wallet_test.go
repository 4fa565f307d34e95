package evm

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/mark3labs/dydx-signing/eip712"
)

// Ganache test key (DO NOT use in production)
const walletPrivateKeyHex = "4f3edf983ac636a65a842ce7c78d9aa706d3b113bce9c46f30d7d21715b23b1d"

// fakeWallet is an in-process JSON-RPC wallet holding one key.
type fakeWallet struct {
	key     *ecdsa.PrivateKey
	address common.Address

	// prefixEthSign makes eth_sign apply the EIP-191 prefix, as most
	// wallets do.
	prefixEthSign bool

	// reject answers every request with a user-rejection error.
	reject bool

	mu    sync.Mutex
	calls []string
}

type walletError struct {
	code    int
	message string
}

func (e walletError) Error() string  { return e.message }
func (e walletError) ErrorCode() int { return e.code }

var errUserRejected = walletError{code: 4001, message: "User denied message signature."}

func newFakeWallet(t *testing.T, prefixEthSign bool) (*fakeWallet, *rpc.Client) {
	t.Helper()

	key, err := crypto.HexToECDSA(walletPrivateKeyHex)
	if err != nil {
		t.Fatalf("failed to load wallet key: %v", err)
	}
	w := &fakeWallet{
		key:           key,
		address:       crypto.PubkeyToAddress(key.PublicKey),
		prefixEthSign: prefixEthSign,
	}

	server := rpc.NewServer()
	if err := server.RegisterName("eth", &fakeEthAPI{w}); err != nil {
		t.Fatalf("failed to register eth api: %v", err)
	}
	if err := server.RegisterName("personal", &fakePersonalAPI{w}); err != nil {
		t.Fatalf("failed to register personal api: %v", err)
	}
	client := rpc.DialInProc(server)
	t.Cleanup(func() {
		client.Close()
		server.Stop()
	})
	return w, client
}

func (w *fakeWallet) record(call string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, call)
}

func (w *fakeWallet) lastCall() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.calls) == 0 {
		return ""
	}
	return w.calls[len(w.calls)-1]
}

func (w *fakeWallet) sign(address common.Address, hash []byte, fixV bool) (hexutil.Bytes, error) {
	if w.reject {
		return nil, errUserRejected
	}
	if address != w.address {
		return nil, walletError{code: -32602, message: fmt.Sprintf("unknown account %s", address.Hex())}
	}
	sig, err := crypto.Sign(hash, w.key)
	if err != nil {
		return nil, err
	}
	if fixV {
		sig[64] += 27
	}
	return sig, nil
}

func (w *fakeWallet) signTypedData(address common.Address, td eip712.TypedData) (hexutil.Bytes, error) {
	hash, err := td.Hash()
	if err != nil {
		return nil, err
	}
	// Typed-data responses keep v as 0/1 to exercise untouched tagging.
	return w.sign(address, hash.Bytes(), false)
}

type fakeEthAPI struct{ w *fakeWallet }

// Sign serves eth_sign.
func (api *fakeEthAPI) Sign(address common.Address, data hexutil.Bytes) (hexutil.Bytes, error) {
	api.w.record("eth_sign")
	hash := []byte(data)
	if api.w.prefixEthSign {
		hash = accounts.TextHash(data)
	}
	return api.w.sign(address, hash, true)
}

// SignTypedData serves eth_signTypedData.
func (api *fakeEthAPI) SignTypedData(address common.Address, td eip712.TypedData) (hexutil.Bytes, error) {
	api.w.record("eth_signTypedData:object")
	return api.w.signTypedData(address, td)
}

// SignTypedData_v3 serves eth_signTypedData_v3, which takes a JSON string.
func (api *fakeEthAPI) SignTypedData_v3(address common.Address, data string) (hexutil.Bytes, error) {
	api.w.record("eth_signTypedData_v3:string")
	var td eip712.TypedData
	if err := json.Unmarshal([]byte(data), &td); err != nil {
		return nil, err
	}
	return api.w.signTypedData(address, td)
}

// SignTypedData_v4 serves eth_signTypedData_v4 with either payload shape.
func (api *fakeEthAPI) SignTypedData_v4(address common.Address, data json.RawMessage) (hexutil.Bytes, error) {
	var td eip712.TypedData
	if len(data) > 0 && data[0] == '"' {
		api.w.record("eth_signTypedData_v4:string")
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		data = json.RawMessage(s)
	} else {
		api.w.record("eth_signTypedData_v4:object")
	}
	if err := json.Unmarshal(data, &td); err != nil {
		return nil, err
	}
	return api.w.signTypedData(address, td)
}

type fakePersonalAPI struct{ w *fakeWallet }

// Sign serves personal_sign with params [address, message].
func (api *fakePersonalAPI) Sign(address common.Address, message string) (hexutil.Bytes, error) {
	api.w.record("personal_sign")
	return api.w.sign(address, accounts.TextHash([]byte(message)), true)
}
