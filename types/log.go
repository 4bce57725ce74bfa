package types

// Log is a single LOG0..LOG4 event emitted during execution.
type Log struct {
	Address Address
	Topics  []Hash
	Data    []byte
}
