package signing

import "fmt"

// PrimaryNetworkID is the network on which the onboarding action carries the
// extra onlySignOn field.
const PrimaryNetworkID int64 = 1

// DefaultOnlySignOn is the origin bound into onboarding messages on the
// primary network.
const DefaultOnlySignOn = "https://trade.dydx.exchange"

// Network describes a chain the signer can target.
type Network struct {
	// ID is the EIP-155 chain id used in the EIP-712 domain.
	ID int64

	// Name is a human-readable identifier (e.g. "mainnet", "goerli").
	Name string

	// OnlySignOn is the origin included in onboarding messages; empty when
	// the network's onboarding struct has no such field.
	OnlySignOn string
}

var (
	// Mainnet is Ethereum mainnet.
	Mainnet = Network{ID: PrimaryNetworkID, Name: "mainnet", OnlySignOn: DefaultOnlySignOn}

	// Goerli is the Goerli testnet.
	Goerli = Network{ID: 5, Name: "goerli"}

	// Sepolia is the Sepolia testnet.
	Sepolia = Network{ID: 11155111, Name: "sepolia"}
)

var networks = []Network{Mainnet, Goerli, Sepolia}

// IsPrimary reports whether id is the primary network.
func IsPrimary(id int64) bool {
	return id == PrimaryNetworkID
}

// NetworkByID returns the known network for id.
func NetworkByID(id int64) (Network, error) {
	for _, n := range networks {
		if n.ID == id {
			return n, nil
		}
	}
	return Network{}, fmt.Errorf("%w: %d", ErrInvalidNetwork, id)
}

// NetworkByName returns the known network called name.
func NetworkByName(name string) (Network, error) {
	for _, n := range networks {
		if n.Name == name {
			return n, nil
		}
	}
	return Network{}, fmt.Errorf("%w: %s", ErrInvalidNetwork, name)
}
