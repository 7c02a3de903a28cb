package templates

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"ufc-predict/ufcdata"
)

var (
	markdown = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))
	policy   = bluemonday.UGCPolicy()
)

const placeholderPhoto = "/static/fighter-placeholder.svg"

// RenderInsight converts markdown to sanitized HTML.
func RenderInsight(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return string(policy.SanitizeBytes(buf.Bytes())), nil
}

// Insight renders model commentary. Text that fails to convert is shown
// escaped.
func Insight(src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := RenderInsight(src)
		if err != nil {
			_, err = io.WriteString(w, templ.EscapeString(src))
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// Percent prints v with at most one decimal, e.g. 58 -> "58%", 41.7 -> "41.7%".
func Percent(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64) + "%"
}

// Number is Percent without the sign.
func Number(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

func Count(n int) string { return humanize.Comma(int64(n)) }

func Itoa(n int) string { return strconv.Itoa(n) }

func ShortDate(s string) string {
	if t, ok := ufcdata.ParseDate(s); ok {
		return t.Format("Jan 2, 2006")
	}
	return s
}

func LongDate(s string) string {
	if t, ok := ufcdata.ParseDate(s); ok {
		return t.Format("Monday, January 2, 2006")
	}
	return s
}

func StartTime(s string) string {
	if t, ok := ufcdata.ParseDate(s); ok && strings.Contains(s, "T") {
		return t.Format("3:04 PM")
	}
	return "TBA"
}

// CountdownTo measures the time from now until start. Past starts give a
// zero countdown.
func CountdownTo(start, now time.Time) Countdown {
	d := start.Sub(now)
	if d <= 0 {
		return Countdown{}
	}
	m := int(d / time.Minute)
	return Countdown{Days: m / (24 * 60), Hours: m / 60 % 24, Minutes: m % 60}
}

func (c Countdown) String() string {
	return fmt.Sprintf("%dd %dh %dm", c.Days, c.Hours, c.Minutes)
}

// IsActive reports whether the nav link href matches the request path. The
// home link matches only itself.
func IsActive(path, href string) bool {
	if href == "/" {
		return path == "/"
	}
	return strings.HasPrefix(path, href)
}

func navClass(path, href string) string {
	if IsActive(path, href) {
		return "nav-link active"
	}
	return "nav-link"
}

func FightPath(id string) string   { return "/fight/" + url.PathEscape(id) }
func FighterPath(id string) string { return "/fighter/" + url.PathEscape(id) }

func FightsPath(filter, q string) string {
	v := url.Values{}
	if filter != "" {
		v.Set("filter", filter)
	}
	if q != "" {
		v.Set("q", q)
	}
	if len(v) == 0 {
		return "/fights"
	}
	return "/fights?" + v.Encode()
}

func backdropPath(variant string) string {
	return "/backdrop/" + url.PathEscape(variant) + ".svg"
}

func photo(src string) string {
	if src == "" {
		return placeholderPhoto
	}
	return src
}

func rankLabel(rank int) string {
	if rank <= 0 {
		return "NR"
	}
	return "#" + strconv.Itoa(rank)
}

func confidenceClass(c float64) string {
	return "badge badge-" + strings.ToLower(ufcdata.ConfidenceLevel(c))
}

func resultClass(result string) string {
	switch result {
	case "win":
		return "result-win"
	case "loss":
		return "result-loss"
	}
	return "result-draw"
}

func tabClass(active bool) string {
	if active {
		return "tab active"
	}
	return "tab"
}

func edgeClass(e, side ufcdata.Edge) string {
	if e == side {
		return "stat-value stat-better"
	}
	return "stat-value"
}

func predictedLine(method string, round int) string {
	return fmt.Sprintf("%s, Round %d", method, round)
}

func shortOutcome(method string, round int) string {
	return fmt.Sprintf("%s, R%d", method, round)
}

func showing(n, total int) string {
	return fmt.Sprintf("Showing %d of %d fights", n, total)
}

func correctOf(d ufcdata.DivisionAccuracy) string {
	return fmt.Sprintf("%d of %d correct", d.CorrectPredictions, d.TotalPredictions)
}

func summaryLine(s ufcdata.FighterSummary) string {
	return rankLabel(s.Rank) + " • " + s.Record
}

func quoted(s string) string { return "“" + s + "”" }
