package export

import (
	"fmt"
	"math"
	"strings"
)

// GenerateEDL renders events back to back as a CMX3600 edit list. Each
// event plays its whole clip; the record side accumulates.
func GenerateEDL(events []Event, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = int(DefaultFrameRate)
	}

	fcm := "FCM: NON-DROP FRAME"
	if math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01 {
		fcm = "FCM: DROP FRAME"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "TITLE: %s\n%s\n\n", title, fcm)

	recordFrames := 0
	for i, ev := range events {
		length := ev.Duration * fps
		fmt.Fprintf(&b, "%03d  %-8s %-5s C        %s %s %s %s\n",
			i+1, "AX", "V",
			framesToTimecode(0, fps), framesToTimecode(length, fps),
			framesToTimecode(recordFrames, fps), framesToTimecode(recordFrames+length, fps),
		)
		fmt.Fprintf(&b, "* FROM CLIP NAME:  %s\n", ev.Name)
		if ev.Source != "" {
			fmt.Fprintf(&b, "* SOURCE:  %s\n", ev.Source)
		}
		recordFrames += length
	}

	return b.String()
}

// TotalSeconds is the running time of the playlist.
func TotalSeconds(events []Event) int {
	total := 0
	for _, ev := range events {
		total += ev.Duration
	}
	return total
}

func framesToTimecode(totalFrames, fps int) string {
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	return fmt.Sprintf("%02d:%02d:%02d:%02d",
		totalSeconds/3600, (totalSeconds/60)%60, totalSeconds%60, frames)
}
