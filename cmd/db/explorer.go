package main

import (
	"fmt"
	"sort"

	"github.com/cockroachdb/pebble"

	"github.com/setavenger/brc20-ledger/internal/brc20"
	"github.com/setavenger/brc20-ledger/internal/database/dbpebble"
)

// DatabaseExplorer provides methods to explore the pebble database
type DatabaseExplorer struct {
	db *pebble.DB
}

// NewDatabaseExplorer opens the db without creating anything
func NewDatabaseExplorer(dbPath string) (*DatabaseExplorer, error) {
	db, err := pebble.Open(dbPath, &pebble.Options{ErrorIfNotExists: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &DatabaseExplorer{db: db}, nil
}

func (de *DatabaseExplorer) Close() error {
	return de.db.Close()
}

func (de *DatabaseExplorer) countRange(lowerBound, upperBound []byte) (int, error) {
	iter, err := de.db.NewIter(&pebble.IterOptions{
		LowerBound: lowerBound,
		UpperBound: upperBound,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	count := 0
	for iter.First(); iter.Valid(); iter.Next() {
		count++
	}

	if err := iter.Error(); err != nil {
		return 0, fmt.Errorf("iterator error: %w", err)
	}
	return count, nil
}

// CountTable counts the keys of a ledger table. With an owner only the keys
// of that owner are counted, which only makes sense for the owner keyed
// tables.
func (de *DatabaseExplorer) CountTable(table string, owner *brc20.ScriptKey) (int, error) {
	prefix, ok := dbpebble.TablePrefix(table)
	if !ok {
		return 0, fmt.Errorf("unsupported table: %s", table)
	}

	lowerBound, upperBound := dbpebble.BoundsTable(prefix)
	if owner != nil {
		if prefix != dbpebble.KBalances && prefix != dbpebble.KTransferableLog {
			return 0, fmt.Errorf("table %s is not keyed by owner", table)
		}
		lb, ub := dbpebble.BoundsScriptTick(*owner)
		lowerBound = append([]byte{prefix}, lb...)
		upperBound = append([]byte{prefix}, ub...)
	}
	return de.countRange(lowerBound, upperBound)
}

// ListAllKeyTypes returns a count of keys by type prefix
func (de *DatabaseExplorer) ListAllKeyTypes() (map[byte]int, error) {
	keyCounts := make(map[byte]int)

	iter, err := de.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		if len(key) > 0 {
			keyCounts[key[0]]++
		}
	}

	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterator error: %w", err)
	}

	return keyCounts, nil
}

// ListCatalog returns the registered table names with their prefix
func (de *DatabaseExplorer) ListCatalog() (map[string][]byte, error) {
	lowerBound, upperBound := dbpebble.BoundsTable(dbpebble.KCatalog)
	iter, err := de.db.NewIter(&pebble.IterOptions{
		LowerBound: lowerBound,
		UpperBound: upperBound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	catalog := make(map[string][]byte)
	for iter.First(); iter.Valid(); iter.Next() {
		catalog[string(iter.Key()[1:])] = append([]byte(nil), iter.Value()...)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterator error: %w", err)
	}
	return catalog, nil
}

// PrintKeyTypeSummary prints a summary of key types in the database
func (de *DatabaseExplorer) PrintKeyTypeSummary() error {
	keyCounts, err := de.ListAllKeyTypes()
	if err != nil {
		return err
	}

	fmt.Println("Database Key Type Summary:")
	fmt.Println("=========================")

	prefixes := make([]int, 0, len(keyCounts))
	for p := range keyCounts {
		prefixes = append(prefixes, int(p))
	}
	sort.Ints(prefixes)

	totalKeys := 0
	for _, p := range prefixes {
		prefix := byte(p)
		name, ok := dbpebble.TableByPrefix(prefix)
		switch {
		case prefix == dbpebble.KCatalog:
			name = "CATALOG"
		case !ok:
			name = fmt.Sprintf("Unknown(0x%02X)", prefix)
		}
		fmt.Printf("%-25s: %d keys\n", name, keyCounts[prefix])
		totalKeys += keyCounts[prefix]
	}

	fmt.Printf("%-25s: %d keys\n", "TOTAL", totalKeys)
	return nil
}

// PrintDatabaseInfo prints the catalog, the key summary and pebble metrics
func (de *DatabaseExplorer) PrintDatabaseInfo() error {
	fmt.Println("BRC-20 Ledger Database Information")
	fmt.Println("==================================")

	catalog, err := de.ListCatalog()
	if err != nil {
		fmt.Printf("Error reading table catalog: %v\n", err)
	} else {
		names := make([]string, 0, len(catalog))
		for name := range catalog {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("Tables:")
		for _, name := range names {
			fmt.Printf("  %-23s: prefix 0x%X\n", name, catalog[name])
		}
	}

	fmt.Println()

	if err := de.PrintKeyTypeSummary(); err != nil {
		return fmt.Errorf("failed to print key type summary: %w", err)
	}

	fmt.Println()

	metrics := de.db.Metrics()
	fmt.Println("Database Metrics:")
	fmt.Printf("  Range Key Sets: %d\n", metrics.Keys.RangeKeySetsCount)
	fmt.Printf("  Tombstones: %d\n", metrics.Keys.TombstoneCount)
	fmt.Printf("  Memtable Size: %d bytes\n", metrics.MemTable.Size)
	fmt.Printf("  Block Cache Size: %d bytes\n", metrics.BlockCache.Size)
	fmt.Printf("  WAL Files: %d\n", metrics.WAL.Files)
	fmt.Printf("  WAL Size: %d bytes\n", metrics.WAL.Size)

	return nil
}
