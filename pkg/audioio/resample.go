package audioio

// ResampleFrames converts frame-major interleaved audio from one sample rate
// to another using per-channel linear interpolation. Suitable for speech;
// a polyphase filter would do better for music.
func ResampleFrames(samples []float32, channels, fromRate, toRate int) []float32 {
	if fromRate == toRate || len(samples) == 0 || channels <= 0 {
		return samples
	}

	frames := len(samples) / channels
	ratio := float64(fromRate) / float64(toRate)
	newFrames := int(float64(frames) / ratio)
	if newFrames == 0 {
		return []float32{}
	}

	result := make([]float32, newFrames*channels)
	for i := 0; i < newFrames; i++ {
		srcPos := float64(i) * ratio
		srcIdx := int(srcPos)
		frac := float32(srcPos - float64(srcIdx))

		for ch := 0; ch < channels; ch++ {
			if srcIdx >= frames-1 {
				result[i*channels+ch] = samples[(frames-1)*channels+ch]
			} else {
				s1 := samples[srcIdx*channels+ch]
				s2 := samples[(srcIdx+1)*channels+ch]
				result[i*channels+ch] = s1 + frac*(s2-s1)
			}
		}
	}

	return result
}

// Resample converts mono audio between sample rates.
func Resample(samples []float32, fromRate, toRate int) []float32 {
	return ResampleFrames(samples, 1, fromRate, toRate)
}

// MonoToStereo duplicates mono samples into both stereo channels.
func MonoToStereo(samples []float32) []float32 {
	stereo := make([]float32, len(samples)*2)
	for i, s := range samples {
		stereo[i*2] = s
		stereo[i*2+1] = s
	}
	return stereo
}

// StereoToMono averages stereo frames down to mono.
func StereoToMono(samples []float32) []float32 {
	mono := make([]float32, len(samples)/2)
	for i := range mono {
		mono[i] = (samples[i*2] + samples[i*2+1]) / 2
	}
	return mono
}

// SamplesToPCM16 converts normalized samples to raw little-endian PCM16 bytes.
// Values outside [-1, 1] are clipped.
func SamplesToPCM16(samples []float32) []byte {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767)
		data[i*2] = byte(v)
		data[i*2+1] = byte(v >> 8)
	}
	return data
}
