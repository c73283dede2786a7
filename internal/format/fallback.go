package format

import (
	"fmt"
	"strings"

	"github.com/Hiro-Kanda/AeroCast-Engine/internal/weather"
)

var comfortLabels = map[string]string{
	"HOT":  "暑い",
	"WARM": "暖かい",
	"COOL": "涼しい",
	"COLD": "寒い",
}

// SimpleFormat renders a report deterministically, line by line. It is the
// fallback when the language model is unavailable or its output is rejected.
func SimpleFormat(r weather.Report) string {
	w := r.Fact
	lines := []string{
		fmt.Sprintf("%sの天気: %s", w.City, w.Description),
		fmt.Sprintf("気温：%.1f℃ (体感 %.1f℃)", w.TempC, w.FeelsLikeC),
		fmt.Sprintf("湿度：%d%%", w.HumidityPct),
		fmt.Sprintf("風速：%.1fm/s", w.WindSpeedMS),
		fmt.Sprintf("降水確率：%d%%", w.RainProbability),
	}

	if r.Umbrella.Needed {
		lines = append(lines, "⚠️ 傘が必要です。")
	} else {
		lines = append(lines, "傘は不要です。")
	}

	if r.Wind.Alert {
		lines = append(lines, fmt.Sprintf("⚠️ 風が強いです（%.1fm/s）。注意してください。", w.WindSpeedMS))
	}

	label, ok := comfortLabels[r.Comfort.Level]
	if !ok {
		label = r.Comfort.Level
	}
	lines = append(lines, fmt.Sprintf("体感：%s", label))

	if w.SnowProbability != nil {
		lines = append(lines, fmt.Sprintf("雪確率：%d%%", *w.SnowProbability))
		if w.SnowVolumeMM3h != nil && *w.SnowVolumeMM3h > 0 {
			lines = append(lines, fmt.Sprintf("積雪量（3時間）：%.1fmm", *w.SnowVolumeMM3h))
		}
	}

	if w.ObservedAt != "" {
		lines = append(lines, fmt.Sprintf("観測時刻：%s", w.ObservedAt))
	}

	return strings.Join(lines, "\n")
}
