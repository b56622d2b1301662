package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"tpyparser/internal/config"
)

// Digest identifies an analysis input: source bytes plus every flag that
// changes the result.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DigestOf combines content with the analysis-relevant part of cfg. The
// language and module list do not affect diagnostics and are left out.
func DigestOf(content []byte, cfg config.Config, maxDiagnostics int) Digest {
	h := sha256.New()
	_, _ = h.Write(content)
	_, _ = fmt.Fprintf(h, "\x00py%d nd%t ev%t dc%t rp%t sp%t tu%t we%t max%d",
		cfg.PythonVersion, cfg.NewDivision, cfg.EvalMode, cfg.RejectDeadCode,
		cfg.RepeatStatement, cfg.SagePower, cfg.TranslateUnicodePunctuation,
		cfg.WarningAsErrors, maxDiagnostics)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
