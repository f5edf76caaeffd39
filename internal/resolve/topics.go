package resolve

import (
	"fmt"
	"strings"

	"github.com/avenue-assistant/internal/knowledge"
)

// TopicRule is one keyword-routed topic. Keywords are tested by
// substring containment against the normalized query; Respond produces
// the reply and may branch further on secondary keywords or interpolate
// session context.
type TopicRule struct {
	Name     string
	Keywords []string
	Respond  func(query string, sc SessionContext) string
}

func (r TopicRule) matches(query string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(query, kw) {
			return true
		}
	}
	return false
}

// Router maps normalized queries to topic responses. Rules are held as
// an explicit ordered sequence; Route applies the first rule whose
// keyword set hits, which makes priority a stated contract rather than
// incidental array order.
type Router struct {
	rules []TopicRule
}

// NewRouter builds the router with the platform's topic rules in
// priority order.
func NewRouter() *Router {
	return &Router{rules: defaultRules()}
}

// NewRouterWith builds a router over an explicit rule sequence.
func NewRouterWith(rules []TopicRule) *Router {
	return &Router{rules: rules}
}

// Rules exposes the ordered rule list, mainly for tests asserting
// priority order.
func (r *Router) Rules() []TopicRule {
	return r.rules
}

// Route returns the first matching rule's response, or "" when no
// rule's keywords hit.
func (r *Router) Route(query string, sc SessionContext) string {
	for _, rule := range r.rules {
		if rule.matches(query) {
			return rule.Respond(query, sc)
		}
	}
	return ""
}

func defaultRules() []TopicRule {
	return []TopicRule{
		{
			Name:     "role-selection",
			Keywords: []string{"which role", "what role", "choose a role", "role should i", "sign up as", "register as"},
			Respond: func(q string, sc SessionContext) string {
				base := "Avenue has four roles. Job seekers search and apply for vacancies, employers post jobs and review candidates, trainers publish training programs, and trainees enrol in them. Pick the one that matches what you want to do; you can contact support later if you need it changed."
				if sc.UserRole != "" {
					return base + fmt.Sprintf(" You are currently registered as a %s.", strings.ReplaceAll(sc.UserRole, "_", " "))
				}
				return base
			},
		},
		{
			Name:     "job-seeker",
			Keywords: []string{"job seeker", "jobseeker", "find a job", "find work", "apply for a job", "job search", "vacanc", "looking for a job"},
			Respond: func(q string, sc SessionContext) string {
				if strings.Contains(q, "tip") || strings.Contains(q, "advice") {
					return "A few things that help on Avenue:\n- " + strings.Join(knowledge.JobSearchTips, "\n- ")
				}
				return "As a job seeker you can browse the Avenue job board, filter vacancies by category and location, and apply with one click once your resume is uploaded. Your dashboard tracks every application's status."
			},
		},
		{
			Name:     "employer",
			Keywords: []string{"employer", "post a job", "hire", "recruit", "candidate", "shortlist"},
			Respond: func(q string, sc SessionContext) string {
				if strings.Contains(q, "candidate") || strings.Contains(q, "shortlist") {
					return "Applications for your vacancies appear under Candidates in your employer dashboard. You can view each applicant's resume, shortlist them, and message shortlisted candidates directly."
				}
				return "Employers post vacancies from the dashboard: click Post a Job, fill in the details and publish. Listings go live on the job board immediately and you are notified of every application."
			},
		},
		{
			Name:     "trainer",
			Keywords: []string{"trainer", "training program", "run a course", "teach on"},
			Respond: func(q string, sc SessionContext) string {
				return "Trainers publish training programs from their dashboard: describe the program, set the duration and fee, and submit it. Approved programs are listed alongside jobs on the Avenue board where trainees can enrol."
			},
		},
		{
			Name:     "trainee",
			Keywords: []string{"trainee", "apprentice", "internship", "learn a skill", "enrol", "enroll"},
			Respond: func(q string, sc SessionContext) string {
				return "Trainees can browse training programs on the Avenue board, enrol directly, and track progress from the dashboard. Completed programs are added to your profile where employers can see them."
			},
		},
		{
			Name:     "resume",
			Keywords: []string{"resume", "cv", "curriculum vitae"},
			Respond: func(q string, sc SessionContext) string {
				switch {
				case strings.Contains(q, "tip") || strings.Contains(q, "advice") || strings.Contains(q, "improve"):
					return "Some resume advice from our review team:\n- " + strings.Join(knowledge.ResumeTips, "\n- ")
				case strings.Contains(q, "upload"):
					return "Upload your resume from the Resume section of your dashboard. PDF and DOCX up to 5MB are accepted, and you can replace it at any time."
				default:
					return "Your resume lives in the Resume section of your dashboard. You can upload, replace or remove it there, and request a free review from our team once per month."
				}
			},
		},
		{
			Name:     "job-board",
			Keywords: []string{"avenue", "job board", "listings", "browse jobs"},
			Respond: func(q string, sc SessionContext) string {
				return "The Avenue job board lists every open vacancy and training program on the platform. Filter by category, location or salary, and save a search to get alerts when something new matches."
			},
		},
		{
			Name:     "payment",
			Keywords: []string{"pay", "subscription", "billing", "refund", "cost", "price", "fee", "how much", "money"},
			Respond: func(q string, sc SessionContext) string {
				switch {
				case strings.Contains(q, "refund"):
					return "Refunds are available within 14 days of a subscription payment if you haven't posted a listing in that period. Email support@avenue.example with your receipt and we'll process it within five working days."
				case strings.Contains(q, "cost") || strings.Contains(q, "price") || strings.Contains(q, "fee") || strings.Contains(q, "how much"):
					return "Avenue is free for job seekers and trainees. Employers and trainers pay GHS 150 per month after a 30-day free trial."
				default:
					return "To pay for your subscription, open Billing in your dashboard and choose a payment method. We accept MTN Mobile Money, Vodafone Cash, AirtelTigo Money and Visa or Mastercard."
				}
			},
		},
		{
			Name:     "email-verification",
			Keywords: []string{"verify", "verification", "confirm my email", "activation", "activate my account"},
			Respond: func(q string, sc SessionContext) string {
				return "Check your inbox for the verification link we sent when you signed up; it stays valid for 24 hours. If it expired or never arrived, use Resend Verification on the login page and look in your spam folder."
			},
		},
		{
			Name:     "platform-transition",
			Keywords: []string{"old site", "old platform", "new site", "new platform", "migrat", "redesign", "moved"},
			Respond: func(q string, sc SessionContext) string {
				return "We recently moved to the new Avenue platform. Your account, resume and application history carried over automatically; just log in with your usual email. If anything looks missing, contact support and we'll restore it."
			},
		},
		{
			Name:     "greeting",
			Keywords: []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening", "greetings"},
			Respond: func(q string, sc SessionContext) string {
				if sc.Username != "" {
					return fmt.Sprintf("Hello %s! Welcome back to Avenue. How can I help you today?", sc.Username)
				}
				return "Hello! Welcome to Avenue. I can help with jobs, hiring, training, resumes and payments. What would you like to know?"
			},
		},
		{
			Name:     "help",
			Keywords: []string{"help", "what can you do", "how do you work", "assist"},
			Respond: func(q string, sc SessionContext) string {
				return "I answer questions about the Avenue platform. Try asking things like \"how do I upload my resume\", \"how much does a subscription cost\", or \"how do I post a job\"."
			},
		},
		{
			Name:     "about-platform",
			Keywords: []string{"about the platform", "who are you", "who built", "mission"},
			Respond: func(q string, sc SessionContext) string {
				return "Avenue is a job and training portal connecting job seekers, employers, trainers and trainees in one place. I'm its assistant; ask me anything about how the platform works."
			},
		},
		{
			Name:     "contact-admin",
			Keywords: []string{"contact", "admin", "support", "reach you", "phone number", "email address", "complain"},
			Respond: func(q string, sc SessionContext) string {
				return "You can reach the Avenue team at support@avenue.example, call +233 20 000 0000 on weekdays 8am-5pm, or use the Contact Admin form in your dashboard. We reply within one working day."
			},
		},
		{
			Name:     "website",
			Keywords: []string{"website", "site", "page", "link", "url"},
			Respond: func(q string, sc SessionContext) string {
				return "Everything on Avenue is reachable from the top navigation: the job board, your dashboard, billing and settings. If a page won't load, refresh once and then contact support if it persists."
			},
		},
	}
}
