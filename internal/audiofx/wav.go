package audiofx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Buffer is decoded PCM audio, one float64 slice per channel, samples in
// [-1,1].
type Buffer struct {
	SampleRate int
	Samples    [][]float64
}

// Channels returns the channel count.
func (b *Buffer) Channels() int {
	return len(b.Samples)
}

// Len returns the per-channel sample count.
func (b *Buffer) Len() int {
	if len(b.Samples) == 0 {
		return 0
	}
	return len(b.Samples[0])
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate == 0 {
		return 0
	}
	return float64(b.Len()) / float64(b.SampleRate)
}

var errNotWAV = errors.New("not a RIFF/WAVE payload")

const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
)

// DecodeWAV parses a WAV container into a Buffer. Accepts 8/16/24/32-bit PCM
// and 32-bit float sample formats at any channel count and sample rate;
// uploads in the wild vary far more than the encoder side, which always emits
// 16-bit PCM.
func DecodeWAV(data []byte) (*Buffer, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errNotWAV
	}

	var (
		format     uint16
		channels   int
		sampleRate int
		bitDepth   int
		pcm        []byte
		haveFmt    bool
	)

	// Walk the chunk list; chunks are word-aligned, so odd sizes carry a pad
	// byte that is not counted in the chunk size field.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			return nil, fmt.Errorf("wav chunk %q overruns payload", id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("wav fmt chunk too short: %d bytes", size)
			}
			format = binary.LittleEndian.Uint16(data[body : body+2])
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitDepth = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			pcm = data[body : body+size]
		}

		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if !haveFmt || pcm == nil {
		return nil, errors.New("wav missing fmt or data chunk")
	}
	if channels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("wav invalid format: %d channels at %d Hz", channels, sampleRate)
	}

	switch {
	case format == wavFormatPCM && (bitDepth == 8 || bitDepth == 16 || bitDepth == 24 || bitDepth == 32):
	case format == wavFormatFloat && bitDepth == 32:
	default:
		return nil, fmt.Errorf("unsupported wav sample format: tag %d, %d-bit", format, bitDepth)
	}

	bytesPerSample := bitDepth / 8
	frame := bytesPerSample * channels
	frames := len(pcm) / frame

	buf := &Buffer{
		SampleRate: sampleRate,
		Samples:    make([][]float64, channels),
	}
	for ch := range buf.Samples {
		buf.Samples[ch] = make([]float64, frames)
	}

	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			p := pcm[i*frame+ch*bytesPerSample:]

			var v float64
			switch {
			case format == wavFormatFloat:
				v = float64(math.Float32frombits(binary.LittleEndian.Uint32(p)))
			case bitDepth == 8:
				// 8-bit WAV is unsigned with a 128 midpoint.
				v = (float64(p[0]) - 128) / 128
			case bitDepth == 16:
				v = float64(int16(binary.LittleEndian.Uint16(p))) / 32768
			case bitDepth == 24:
				raw := int32(p[0]) | int32(p[1])<<8 | int32(p[2])<<16
				if raw&0x800000 != 0 {
					raw |= ^int32(0xFFFFFF)
				}
				v = float64(raw) / 8388608
			case bitDepth == 32:
				v = float64(int32(binary.LittleEndian.Uint32(p))) / 2147483648
			}

			buf.Samples[ch][i] = v
		}
	}

	return buf, nil
}

// EncodeWAV serializes a Buffer as a canonical 16-bit PCM WAV container,
// preserving the buffer's channel count and sample rate. Samples are clipped
// to [-1,1] before quantization.
func EncodeWAV(buf *Buffer) ([]byte, error) {
	channels := buf.Channels()
	if channels == 0 || buf.SampleRate <= 0 {
		return nil, errors.New("cannot encode empty audio buffer")
	}

	frames := buf.Len()
	dataSize := frames * channels * 2

	out := make([]byte, 44+dataSize)

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], wavFormatPCM)
	binary.LittleEndian.PutUint16(out[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(buf.SampleRate))
	byteRate := buf.SampleRate * channels * 2
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(channels*2)) // block align
	binary.LittleEndian.PutUint16(out[34:36], 16)                 // bits per sample

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataSize))

	w := 44
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			v := buf.Samples[ch][i]
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			binary.LittleEndian.PutUint16(out[w:w+2], uint16(int16(math.Round(v*32767))))
			w += 2
		}
	}

	return out, nil
}
