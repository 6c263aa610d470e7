package domain

// MaxUploadBytes is the hard cap on a submitted photo. Oversized files are
// rejected before any network call.
const MaxUploadBytes = 10 << 20

// UploadCandidate is the locally selected photo awaiting generation. A new
// submission replaces the candidate wholesale; Reset discards it.
type UploadCandidate struct {
	Name string
	MIME string
	Size int64
	Data []byte
}

// Preview holds the decoded dimensions of an upload candidate. Decoding
// happens asynchronously after submission and its failure is non-fatal, so a
// candidate may never gain a preview.
type Preview struct {
	Width  int
	Height int
}
