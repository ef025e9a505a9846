package decoder

// repack appends src, interleaved with srcCh channels, to dst[:0] laid out
// for dstCh channels. Mono is duplicated to stereo; stereo is averaged down
// to mono.
func repack(dst, src []int16, srcCh, dstCh int) []int16 {
	dst = dst[:0]
	if srcCh == dstCh {
		return append(dst, src...)
	}
	frames := len(src) / srcCh
	switch {
	case srcCh == 1 && dstCh == 2:
		for i := range frames {
			dst = append(dst, src[i], src[i])
		}
	case srcCh == 2 && dstCh == 1:
		for i := range frames {
			l, r := int32(src[2*i]), int32(src[2*i+1])
			dst = append(dst, int16((l+r)/2))
		}
	}
	return dst
}

// to16 scales a signed integer sample of the given depth to 16 bits.
// 8-bit WAV samples are unsigned and centred on 128.
func to16(v, depth int) int16 {
	switch depth {
	case 8:
		return int16((v - 128) << 8)
	case 24:
		return int16(v >> 8)
	case 32:
		return int16(v >> 16)
	default:
		return int16(v)
	}
}
