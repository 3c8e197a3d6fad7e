package card

import "log/slog"

// Processor is the MyEID command processor: the receiver that carries
// session state (SecurityEnvironment, the two-part-decipher
// ResponseBuffer) across APDU exchanges, per spec.md §5's "no package
// globals" re-architecture. One Processor serves exactly one card/session;
// the transport layer owns the mapping from connection to Processor.
type Processor struct {
	fs  FileSystem
	env SecurityEnvironment
	rb  ResponseBuffer

	// Log, if non-nil, receives one structured debug record per dispatched
	// APDU (§6's ambient logging stack: log/slog, as the teacher uses it).
	Log *slog.Logger

	// Progress, if non-nil, is invoked by long-running arithmetic paths
	// (RSA/EC key generation, RSA/EC operations) as a cooperative
	// keep-alive hook for the transport, per §4.2/§9.
	Progress func()
}

// NewProcessor constructs a Processor bound to fs. fs is consulted for
// every file-system-boundary operation (§6); the Processor itself holds no
// file-system state.
func NewProcessor(fs FileSystem) *Processor {
	return &Processor{fs: fs}
}

// Handle dispatches one already-parsed APDU and returns its response,
// per §2's core request/response loop.
func (p *Processor) Handle(a APDU) Response {
	sw, data := p.dispatch(a)
	if p.Log != nil {
		p.Log.Debug("apdu",
			"ins", a.Ins,
			"p1", a.P1,
			"p2", a.P2,
			"lc", len(a.Data),
			"sw", sw,
		)
	}
	return Response{SW: sw, Data: data}
}

func (p *Processor) dispatch(a APDU) (StatusWord, []byte) {
	switch a.Ins {
	case InsManageSecurityEnv:
		return p.manageSecurityEnvironment(a)
	case InsPerformSecurityOp:
		return performSecurityOperation(p.fs, &p.env, &p.rb, a, p.fs.SelectedFile(), p.Progress)
	case InsGenerateKey:
		return generateKey(p.fs, a, p.fs.SelectedFile(), p.Progress)
	case InsGeneralAuthenticate:
		return p.generalAuthenticate(a)
	case InsGetData:
		return getData(p.fs, a)
	case InsPutData:
		return putData(p.fs, a), nil
	case InsActivateApplet:
		return activateApplet(p.fs), nil
	default:
		return SWFunctionNotSupported, nil
	}
}

func (p *Processor) manageSecurityEnvironment(a APDU) (StatusWord, []byte) {
	sw := manageSecurityEnvironment(&p.env, a)
	return sw, nil
}

// generalAuthenticate implements GENERAL AUTHENTICATE (INS=0x86, §4.6): the
// armed environment must be OpECDH against the currently selected file.
// The response is the raw X-coordinate, not TLV-wrapped — confirmed
// against original_source/myeid_emu.c's myeid_ecdh_derive, which calls
// resp_ready directly on the derived point's X bytes.
func (p *Processor) generalAuthenticate(a APDU) (StatusWord, []byte) {
	if a.P1 != 0x00 || a.P2 != 0x00 {
		return SWIncorrectP1P2, nil
	}
	if !p.env.Valid || p.env.Operation != OpECDH || p.fs.SelectedFile() != p.env.KeyFileID {
		return SWConditionsNotSat, nil
	}
	if len(a.Data) == 0 {
		return SWInvalidData, nil
	}
	if p.Progress != nil {
		p.Progress()
	}
	x, err := ecdhDeriveX(p.fs, p.env.KeyFileID, a.Data)
	if err != nil {
		return err.SW, nil
	}
	return SWOK, x
}
