package dbpebble

// Prefix Keys "K". Every physical key starts with the prefix of its table.
const (
	// KCatalog keys hold the table name and map it to the table prefix.
	KCatalog = 0x00

	KBalances        = 0x01
	KToken           = 0x02
	KEvents          = 0x03
	KTransferableLog = 0x04
)

const (
	TableBalances        = "BRC20_BALANCES"
	TableToken           = "BRC20_TOKEN"
	TableEvents          = "BRC20_EVENTS"
	TableTransferableLog = "BRC20_TRANSFERABLELOG"
)

var tablePrefixes = map[string]byte{
	TableBalances:        KBalances,
	TableToken:           KToken,
	TableEvents:          KEvents,
	TableTransferableLog: KTransferableLog,
}

// TableNames lists the ledger tables in prefix order.
func TableNames() []string {
	return []string{TableBalances, TableToken, TableEvents, TableTransferableLog}
}

// TablePrefix returns the key prefix of a known table.
func TablePrefix(name string) (byte, bool) {
	p, ok := tablePrefixes[name]
	return p, ok
}

// TableByPrefix is the reverse lookup used when walking raw keys.
func TableByPrefix(prefix byte) (string, bool) {
	for name, p := range tablePrefixes {
		if p == prefix {
			return name, true
		}
	}
	return "", false
}
