package swaps

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ShortenAddress renders 0x1234...abcd from a checksummed address.
func ShortenAddress(addr common.Address) string {
	hex := addr.Hex()
	return hex[:6] + "..." + hex[len(hex)-4:]
}

// Summary describes an executed trade for the transaction log. recipientInput
// is what the user typed; the clause is only added when recipient differs
// from account. V2 trades get no version clause.
func Summary(trade *Trade, recipientInput string, recipient, account common.Address) string {
	s := fmt.Sprintf("Swap %s %s for %s %s",
		trade.InputAmount.ToSignificant(3), trade.InputAmount.Token.Symbol,
		trade.OutputAmount.ToSignificant(3), trade.OutputAmount.Token.Symbol,
	)

	if recipient != account {
		label := recipientInput
		switch {
		case recipientInput == "":
			label = ShortenAddress(recipient)
		case common.IsHexAddress(recipientInput):
			label = ShortenAddress(common.HexToAddress(recipientInput))
		}
		s += " to " + label
	}

	if trade.Version.Kind != V2 {
		if v := trade.Version.String(); v != "" {
			s += " on " + strings.ToUpper(v)
		}
	}
	return s
}
