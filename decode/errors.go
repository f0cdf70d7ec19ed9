package decode

import "errors"

// ErrCorrupt is returned once a decoder encounters a malformed block: a
// zero match distance, or a 15/255-extension chain whose accumulated
// length would overflow 32 bits. Once either variant returns ErrCorrupt,
// it is latched — every subsequent call to Run returns ErrCorrupt again
// without consuming input, producing output, or otherwise mutating state.
var ErrCorrupt = errors.New("lz4stream/decode: corrupt block")
