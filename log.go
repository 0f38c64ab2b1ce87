package otg

import "go.uber.org/zap"

// logger is the package-wide sink for Step1/Step2/Synchronize
// diagnostics. It defaults to zap's no-op logger so importing otg never
// forces a logging backend; callers that want visibility call
// SetLogger.
var logger *zap.Logger = zap.NewNop()

// SetLogger installs l as the destination for otg's internal debug and
// warning logs. Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

func logBlockFound(dof int, b Block) {
	logger.Debug("step1 block computed",
		zap.Int("dof", dof),
		zap.Float64("t_min", b.TMin),
	)
}

func logSynchronized(duration float64, limitingDOF int) {
	logger.Debug("synchronized duration",
		zap.Float64("duration", duration),
		zap.Int("limiting_dof", limitingDOF),
	)
}

func logStep2Failure(dof int, duration float64) {
	logger.Warn("step2 found no feasible profile",
		zap.Int("dof", dof),
		zap.Float64("duration", duration),
	)
}
