package audiofx

import (
	"encoding/binary"
	"math"
	"testing"
)

func sineBuffer(freq float64, sampleRate, channels int, seconds float64) *Buffer {
	frames := int(seconds * float64(sampleRate))
	buf := &Buffer{SampleRate: sampleRate, Samples: make([][]float64, channels)}
	for ch := range buf.Samples {
		buf.Samples[ch] = make([]float64, frames)
		for i := range buf.Samples[ch] {
			buf.Samples[ch][i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
		}
	}
	return buf
}

func TestEncodeWAVHeader(t *testing.T) {
	buf := sineBuffer(440, 44100, 2, 0.1)

	data, err := EncodeWAV(buf)
	if err != nil {
		t.Fatalf("EncodeWAV() error: %v", err)
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatal("output is not a RIFF/WAVE container")
	}
	if string(data[12:16]) != "fmt " || string(data[36:40]) != "data" {
		t.Fatal("canonical fmt/data chunk layout missing")
	}

	if got := binary.LittleEndian.Uint16(data[20:22]); got != 1 {
		t.Errorf("format tag = %d, want 1 (PCM)", got)
	}
	if got := binary.LittleEndian.Uint16(data[22:24]); got != 2 {
		t.Errorf("channels = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint32(data[24:28]); got != 44100 {
		t.Errorf("sample rate = %d, want 44100", got)
	}
	if got := binary.LittleEndian.Uint16(data[34:36]); got != 16 {
		t.Errorf("bit depth = %d, want 16", got)
	}

	wantData := uint32(buf.Len() * 2 * 2)
	if got := binary.LittleEndian.Uint32(data[40:44]); got != wantData {
		t.Errorf("data chunk size = %d, want %d", got, wantData)
	}
	if got := binary.LittleEndian.Uint32(data[4:8]); got != 36+wantData {
		t.Errorf("RIFF size = %d, want %d", got, 36+wantData)
	}
	if len(data) != int(44+wantData) {
		t.Errorf("payload length = %d, want %d", len(data), 44+wantData)
	}
}

func TestWAVRoundTrip(t *testing.T) {
	src := sineBuffer(1000, 22050, 1, 0.05)

	data, err := EncodeWAV(src)
	if err != nil {
		t.Fatalf("EncodeWAV() error: %v", err)
	}

	got, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV() error: %v", err)
	}

	if got.SampleRate != src.SampleRate {
		t.Errorf("sample rate = %d, want %d", got.SampleRate, src.SampleRate)
	}
	if got.Channels() != src.Channels() {
		t.Errorf("channels = %d, want %d", got.Channels(), src.Channels())
	}
	if got.Len() != src.Len() {
		t.Fatalf("frames = %d, want %d", got.Len(), src.Len())
	}

	for i := range src.Samples[0] {
		if math.Abs(got.Samples[0][i]-src.Samples[0][i]) > 1.0/32000 {
			t.Fatalf("sample %d = %f, want %f within 16-bit quantization", i, got.Samples[0][i], src.Samples[0][i])
		}
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	if _, err := DecodeWAV([]byte("not audio at all")); err == nil {
		t.Error("DecodeWAV() accepted a non-WAV payload")
	}
	if _, err := DecodeWAV(nil); err == nil {
		t.Error("DecodeWAV() accepted an empty payload")
	}
}

func TestDecodeWAVOddChunkPadding(t *testing.T) {
	// Hand-build a WAV with an odd-sized auxiliary chunk before data; the
	// pad byte must be skipped to find the data chunk.
	var pcm [4]byte
	binary.LittleEndian.PutUint16(pcm[0:2], 1000)
	binary.LittleEndian.PutUint16(pcm[2:4], 2000)

	aux := []byte{'L', 'I', 'S', 'T', 3, 0, 0, 0, 'a', 'b', 'c', 0} // 3 bytes + pad

	header := make([]byte, 12)
	copy(header[0:4], "RIFF")
	copy(header[8:12], "WAVE")

	fmtChunk := make([]byte, 24)
	copy(fmtChunk[0:4], "fmt ")
	binary.LittleEndian.PutUint32(fmtChunk[4:8], 16)
	binary.LittleEndian.PutUint16(fmtChunk[8:10], 1)
	binary.LittleEndian.PutUint16(fmtChunk[10:12], 1)
	binary.LittleEndian.PutUint32(fmtChunk[12:16], 8000)
	binary.LittleEndian.PutUint32(fmtChunk[16:20], 16000)
	binary.LittleEndian.PutUint16(fmtChunk[20:22], 2)
	binary.LittleEndian.PutUint16(fmtChunk[22:24], 16)

	dataChunk := make([]byte, 8+len(pcm))
	copy(dataChunk[0:4], "data")
	binary.LittleEndian.PutUint32(dataChunk[4:8], uint32(len(pcm)))
	copy(dataChunk[8:], pcm[:])

	payload := append(header, fmtChunk...)
	payload = append(payload, aux...)
	payload = append(payload, dataChunk...)
	binary.LittleEndian.PutUint32(payload[4:8], uint32(len(payload)-8))

	buf, err := DecodeWAV(payload)
	if err != nil {
		t.Fatalf("DecodeWAV() error: %v", err)
	}
	if buf.Len() != 2 {
		t.Errorf("frames = %d, want 2", buf.Len())
	}
	if buf.SampleRate != 8000 {
		t.Errorf("sample rate = %d, want 8000", buf.SampleRate)
	}
}
