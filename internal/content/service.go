// Package content はコミュニティサイトの静的寄りコンテンツと
// 問い合わせ・参加フォームの処理を提供する。
//
// ストーリーとイベントはサイト運営側が管理する読み取り専用データで、
// いいね・コメントの対象（item_type=story）になる。
package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/naedex/naedex/internal/model"
	"github.com/naedex/naedex/internal/notify"
	"github.com/naedex/naedex/internal/security"
)

// Story はコミュニティストーリー（体験談）。
type Story struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Story  string `json:"story"`
	Impact string `json:"impact"`
	Rating int    `json:"rating"`
}

// Event はコミュニティイベント。
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Attendees   int    `json:"attendees"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ContactMessage は問い合わせフォームの内容。
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// JoinRequest はコミュニティ参加フォームの内容。
type JoinRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Interests  string `json:"interests"`
	Newsletter bool   `json:"newsletter"`
}

// Service はコンテンツ配信とフォーム処理のサービス層。
// フォーム投稿はmailer経由で運営宛にベストエフォート転送される。
type Service struct {
	stories   []Story
	events    []Event
	sanitizer security.ContentSanitizerService
	mailer    notify.Mailer
	logger    *slog.Logger
}

// NewService はシードデータ入りのServiceを生成する。
func NewService(sanitizer security.ContentSanitizerService, mailer notify.Mailer, logger *slog.Logger) *Service {
	return &Service{
		stories:   seedStories(),
		events:    seedEvents(),
		sanitizer: sanitizer,
		mailer:    mailer,
		logger:    logger,
	}
}

// Stories は全ストーリーを返す。
func (s *Service) Stories(_ context.Context) []Story {
	out := make([]Story, len(s.stories))
	copy(out, s.stories)
	return out
}

// StoryByID はIDでストーリーを1件返す。見つからない場合はnot foundエラー。
func (s *Service) StoryByID(_ context.Context, id string) (*Story, error) {
	for i := range s.stories {
		if s.stories[i].ID == id {
			clone := s.stories[i]
			return &clone, nil
		}
	}
	return nil, model.NewNotFoundError(fmt.Sprintf("Story %s not found", id))
}

// Events は全イベントを返す。
func (s *Service) Events(_ context.Context) []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// SubmitContact は問い合わせを受理し、運営宛にベストエフォートで転送する。
// 転送の失敗は受理の成否に影響しない。
func (s *Service) SubmitContact(ctx context.Context, msg *ContactMessage) (*model.Result, error) {
	if strings.TrimSpace(msg.Name) == "" || strings.TrimSpace(msg.Email) == "" || strings.TrimSpace(msg.Message) == "" {
		return nil, model.NewValidationError("Name, email and message are required")
	}

	name := s.sanitizer.Sanitize(msg.Name)
	fields := []notify.FormField{
		{Label: "Name", Value: name},
		{Label: "Email", Value: msg.Email},
		{Label: "Subject", Value: s.sanitizer.Sanitize(msg.Subject)},
		{Label: "Message", Value: s.sanitizer.Sanitize(msg.Message)},
	}
	if err := s.mailer.SendFormSubmission(ctx, "contact form", msg.Email, fields); err != nil {
		s.logger.Error("contact form forwarding failed",
			slog.String("email", msg.Email),
			slog.String("error", err.Error()))
	}

	s.logger.Info("contact message received",
		slog.String("name", name),
		slog.String("email", msg.Email),
		slog.Int("message_length", len(msg.Message)))

	return model.OK("Message sent successfully! 📧"), nil
}

// SubmitJoin は参加申し込みを受理し、運営宛にベストエフォートで転送する。
func (s *Service) SubmitJoin(ctx context.Context, req *JoinRequest) (*model.Result, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, model.NewValidationError("First name, last name and email are required")
	}

	name := fmt.Sprintf("%s %s", s.sanitizer.Sanitize(req.FirstName), s.sanitizer.Sanitize(req.LastName))
	fields := []notify.FormField{
		{Label: "Name", Value: name},
		{Label: "Email", Value: req.Email},
		{Label: "Interests", Value: s.sanitizer.Sanitize(req.Interests)},
		{Label: "Newsletter", Value: fmt.Sprintf("%t", req.Newsletter)},
	}
	if err := s.mailer.SendFormSubmission(ctx, "join form", req.Email, fields); err != nil {
		s.logger.Error("join form forwarding failed",
			slog.String("email", req.Email),
			slog.String("error", err.Error()))
	}

	s.logger.Info("join request received",
		slog.String("name", name),
		slog.String("email", req.Email),
		slog.Bool("newsletter", req.Newsletter))

	return model.OK("Welcome to our community! 🎉"), nil
}

func seedStories() []Story {
	return []Story{
		{
			ID:     "1",
			Name:   "Sarah Martinez",
			Role:   "Community Volunteer",
			Story:  "Joining this community has been life-changing. I've found my passion for helping others and made friendships that will last a lifetime. The support and encouragement I've received here has helped me grow in ways I never imagined.",
			Impact: "Led 3 successful food drives",
			Rating: 5,
		},
		{
			ID:     "2",
			Name:   "David Chen",
			Role:   "Workshop Participant",
			Story:  "The leadership workshops transformed how I approach challenges both in my personal and professional life. The skills I learned here have made me a better father, colleague, and community member. I'm grateful for this incredible journey.",
			Impact: "Now mentors 5 young professionals",
			Rating: 5,
		},
		{
			ID:     "3",
			Name:   "Maria Rodriguez",
			Role:   "Community Partner",
			Story:  "As a local business owner, partnering with this community has been one of the best decisions I've made. Together, we've created programs that have genuinely improved lives in our neighborhood. The collaboration and shared vision is inspiring.",
			Impact: "Created 12 job opportunities",
			Rating: 5,
		},
		{
			ID:     "4",
			Name:   "James Thompson",
			Role:   "Youth Mentor",
			Story:  "Working with young people in our mentorship program has reminded me why community matters. Seeing their growth and potential unfold has been incredibly rewarding. This community has given me purpose and direction.",
			Impact: "Mentored 8 young adults",
			Rating: 5,
		},
		{
			ID:     "5",
			Name:   "Lisa Wang",
			Role:   "Event Organizer",
			Story:  "I started as a shy newcomer and now I'm organizing events for hundreds of people. This community believed in me before I believed in myself. The encouragement and opportunities I've received here have been transformational.",
			Impact: "Organized 15+ community events",
			Rating: 5,
		},
		{
			ID:     "6",
			Name:   "Robert Johnson",
			Role:   "Donor & Advocate",
			Story:  "Seeing the direct impact of our collective efforts has been incredibly fulfilling. Every dollar donated, every hour volunteered, and every story shared creates ripples of positive change that extend far beyond what we can see.",
			Impact: "Supported 50+ families",
			Rating: 5,
		},
	}
}

func seedEvents() []Event {
	return []Event{
		{
			ID:          "1",
			Title:       "5 hours LIVE Hackathon",
			Date:        "October 4, 2025",
			Time:        "10:00 AM - 15:00 PM",
			Location:    "Discord",
			Attendees:   0,
			Type:        "Hackathon",
			Description: "Develop essential coding skills and learn how to inspire others with your ideas.",
		},
	}
}
