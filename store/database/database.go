package database

// Database is the raw byte-oriented persistence interface. The ledger itself
// is memory-resident by design; the seam exists so a durable backend could be
// slotted in without touching the layers above.
type Database interface {
	Put(key []byte, value []byte) error
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Delete(key []byte) error
}
