package compositor

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// FrameSeekSeconds is where the representative frame is taken from. Seeking
// past zero avoids the black or blank first frames many encoders emit.
const FrameSeekSeconds = 1

// Frame extracts one representative frame from a video payload using ffmpeg.
//
// Full-duration video re-encoding is out of scope: when visual enhancements
// are applied to a video, this single frame is what gets rendered, and the
// item's type downgrades from video to photo. Callers log a user-visible
// warning for that downgrade.
func Frame(ctx context.Context, videoData []byte) (image.Image, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg not found: video frame extraction requires ffmpeg", ErrRenderFailed)
	}

	srcFile, err := os.CreateTemp("", "capsule-video-*.mp4")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp video: %v", ErrRenderFailed, err)
	}
	srcPath := srcFile.Name()
	defer os.Remove(srcPath)

	if _, err := srcFile.Write(videoData); err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("%w: write temp video: %v", ErrRenderFailed, err)
	}
	srcFile.Close()

	frameFile, err := os.CreateTemp("", "capsule-frame-*.png")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp frame: %v", ErrRenderFailed, err)
	}
	framePath := frameFile.Name()
	frameFile.Close()
	defer os.Remove(framePath)

	// ffmpeg -ss 1 -i input -vframes 1 -f image2 -y frame.png
	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-ss", fmt.Sprintf("%d", FrameSeekSeconds),
		"-i", srcPath,
		"-vframes", "1",
		"-f", "image2",
		"-y", framePath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		// Retry from the start in case the video is shorter than the seek.
		cmd2 := exec.CommandContext(ctx, ffmpegPath,
			"-i", srcPath,
			"-vframes", "1",
			"-f", "image2",
			"-y", framePath,
		)
		output2, err2 := cmd2.CombinedOutput()
		if err2 != nil {
			return nil, fmt.Errorf("%w: ffmpeg frame extraction failed: %v: %s / %s",
				ErrRenderFailed, err2, string(output), string(output2))
		}
	}

	f, err := os.Open(framePath)
	if err != nil {
		return nil, fmt.Errorf("%w: read extracted frame: %v", ErrRenderFailed, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode extracted frame: %v", ErrRenderFailed, err)
	}

	log.Debug().
		Int("video_bytes", len(videoData)).
		Int("frame_width", img.Bounds().Dx()).
		Int("frame_height", img.Bounds().Dy()).
		Msg("Representative frame extracted")

	return img, nil
}
