package download

// progress turns byte counts into the fractions reported to a Request.
// Reported values never decrease, stay within [0, 1] and end at exactly 1.
type progress struct {
	report func(float64)
	last   float64
}

func newProgress(report func(float64)) *progress {
	return &progress{report: report, last: -1}
}

func (p *progress) update(written, total int64) {
	if total <= 0 {
		return
	}
	p.emit(float64(written) / float64(total))
}

func (p *progress) finish() {
	p.emit(1)
}

func (p *progress) emit(fraction float64) {
	fraction = min(max(fraction, 0), 1)
	if fraction <= p.last {
		return
	}
	p.last = fraction
	if p.report != nil {
		p.report(fraction)
	}
}
