package audio

// Mix sums bufs sample by sample into a new buffer as long as the shortest
// of them. Callers are expected to have scaled each voice by 1/len(bufs);
// the sum is only clipped to [-1, 1], never renormalized. Mix returns nil
// when bufs is empty.
func Mix(bufs ...Buffer) Buffer {
	if len(bufs) == 0 {
		return nil
	}
	n := len(bufs[0])
	for _, buf := range bufs[1:] {
		n = min(n, len(buf))
	}
	out := make(Buffer, n)
	for _, buf := range bufs {
		for i, sample := range buf[:n] {
			out[i] += sample
		}
	}
	clip(out)
	return out
}

func clip(buf []float32) {
	for i, sample := range buf {
		if sample > 1 {
			buf[i] = 1
		} else if sample < -1 {
			buf[i] = -1
		}
	}
}
