package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

// Email is a rendered message.
type Email struct {
	Subject string
	HTML    string
}

type frame struct {
	Heading      string
	HeadingColor template.CSS
	Gradient     template.CSS
	Accent       template.CSS
	CallToAction string
}

var funcs = template.FuncMap{
	"hours": func(h float64) string {
		return strconv.FormatFloat(h, 'f', -1, 64)
	},
}

// Templates renders the notification emails.
type Templates struct {
	appURL string
	pages  map[string]*template.Template
}

// NewTemplates parses the embedded templates.
func NewTemplates(appURL string) (*Templates, error) {
	t := &Templates{appURL: appURL, pages: map[string]*template.Template{}}
	for _, name := range []string{"lesson_completed", "streak_reminder", "weekly_progress", "achievement"} {
		page, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		t.pages[name] = page
	}
	return t, nil
}

func (t *Templates) render(name, subject string, f frame, data map[string]any) (Email, error) {
	data["Heading"] = f.Heading
	data["HeadingColor"] = f.HeadingColor
	data["Gradient"] = f.Gradient
	data["Accent"] = f.Accent
	data["CallToAction"] = f.CallToAction
	data["AppURL"] = t.appURL

	var buf bytes.Buffer
	if err := t.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		return Email{}, fmt.Errorf("rendering %s: %w", name, err)
	}
	return Email{Subject: subject, HTML: buf.String()}, nil
}

// LessonCompleted renders the per-completion congratulation.
func (t *Templates) LessonCompleted(lessonTitle string, streak int) (Email, error) {
	return t.render("lesson_completed", "🎉 Lesson Complete: "+lessonTitle, frame{
		Heading:      "🎉 Lesson Completed!",
		HeadingColor: "white",
		Gradient:     "linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
		Accent:       "#667eea",
		CallToAction: "Continue Learning",
	}, map[string]any{"LessonTitle": lessonTitle, "Streak": streak})
}

// StreakReminder renders the at-risk streak nudge.
func (t *Templates) StreakReminder(streak int, name string) (Email, error) {
	if name == "" {
		name = "Champion"
	}
	return t.render("streak_reminder", fmt.Sprintf("🔥 Don't break your %d-day streak!", streak), frame{
		Heading:      "🔥 Streak Alert!",
		HeadingColor: "white",
		Gradient:     "linear-gradient(135deg, #f093fb 0%, #f5576c 100%)",
		Accent:       "#f5576c",
		CallToAction: "Keep the Streak Alive!",
	}, map[string]any{"Streak": streak, "Name": name})
}

// WeeklyProgress renders the seven-day digest.
func (t *Templates) WeeklyProgress(lessons int, hours float64, streak int) (Email, error) {
	return t.render("weekly_progress", "📊 Your Weekly FAANG Prep Progress", frame{
		Heading:      "📊 Weekly Progress Report",
		HeadingColor: "white",
		Gradient:     "linear-gradient(135deg, #4facfe 0%, #00f2fe 100%)",
		Accent:       "#4facfe",
		CallToAction: "Continue Your Journey",
	}, map[string]any{"Lessons": lessons, "Hours": hours, "Streak": streak})
}

// Achievement renders a milestone announcement.
func (t *Templates) Achievement(achievement, message string) (Email, error) {
	return t.render("achievement", "🏆 Achievement Unlocked: "+achievement, frame{
		Heading:      "🏆 Achievement Unlocked!",
		HeadingColor: "#8b4513",
		Gradient:     "linear-gradient(135deg, #ffecd2 0%, #fcb69f 100%)",
		Accent:       "#fcb69f",
		CallToAction: "Celebrate & Continue!",
	}, map[string]any{"Achievement": achievement, "Message": message})
}
