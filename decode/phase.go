package decode

// phase is the decoder's resume point: exactly where in the LZ4 sequence
// grammar (token, literal run, offset, match run) the next call to Run
// should pick up.
type phase uint8

const (
	phaseReadTok phase = iota
	phaseReadExLitLen
	phaseCopyLit
	phaseReadOfs
	phaseReadOfs2
	phaseReadExMatLen
	phaseCopyMat
	phaseReportError
)

func (p phase) String() string {
	switch p {
	case phaseReadTok:
		return "READ_TOK"
	case phaseReadExLitLen:
		return "READ_EX_LIT_LEN"
	case phaseCopyLit:
		return "COPY_LIT"
	case phaseReadOfs:
		return "READ_OFS"
	case phaseReadOfs2:
		return "READ_OFS2"
	case phaseReadExMatLen:
		return "READ_EX_MAT_LEN"
	case phaseCopyMat:
		return "COPY_MAT"
	case phaseReportError:
		return "REPORT_ERROR"
	default:
		return "UNKNOWN"
	}
}
