package ports

// TransportPort is a line-oriented duplex byte stream. ReadLine blocks until
// a full terminator-delimited line is available and returns it including the
// terminator; Write sends raw bytes. Closing the transport unblocks a
// pending ReadLine with an error.
type TransportPort interface {
	ReadLine() (string, error)
	Write(p []byte) error
	Close() error
}
