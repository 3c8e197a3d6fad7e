package card

// ResponseFlag distinguishes the response buffer's lifecycle, per §3. RTmp
// is an explicit variant rather than a hidden flag, per §9.
type ResponseFlag byte

const (
	RNoData ResponseFlag = iota
	RRespReady
	RTmp
)

// ResponseBuffer is the response-staging structure (§3, §4.3's two-part
// decipher). It doubles as scratch for the pending first half of an
// ENVELOPE-style decipher; RTmp spans exactly two APDU exchanges.
type ResponseBuffer struct {
	Data []byte
	Flag ResponseFlag
}

// zeroize clears working buffers; required on RSA-kernel failure and any
// error that followed sensitive data manipulation, per §5/§7.
func (r *ResponseBuffer) zeroize() {
	for i := range r.Data {
		r.Data[i] = 0
	}
	r.Data = nil
	r.Flag = RNoData
}
