// Package knowledge holds the static support catalog for the Avenue job
// portal: FAQ question/answer pairs, topical tip lists and the welcome
// copy used by the chat assistant. Everything here is read-only at
// runtime; the resolution pipeline never mutates it.
package knowledge

// Entry is a single FAQ question/answer pair. Entries have no identity
// beyond their position: matching scans in declaration order and the
// first qualifying entry wins.
type Entry struct {
	Question string
	Answer   string
}

// FAQ is the ordered FAQ catalog. Order matters: earlier entries win
// ties, so the most specific questions come first.
var FAQ = []Entry{
	{
		Question: "How much does it cost to register?",
		Answer:   "Registration on Avenue is completely free for job seekers and trainees. Employers and trainers pay a subscription of GHS 150 per month after a 30-day free trial, which unlocks unlimited job and training postings.",
	},
	{
		Question: "How do I create an account?",
		Answer:   "Click Sign Up on the home page, choose your role (job seeker, employer, trainer or trainee), fill in your details and confirm the verification link we send to your email. The whole process takes under five minutes.",
	},
	{
		Question: "How do I upload my resume?",
		Answer:   "Go to your dashboard, open the Resume section and click Upload Resume. We accept PDF and DOCX files up to 5MB. Once uploaded, employers you apply to can view it directly.",
	},
	{
		Question: "How do I post a job vacancy?",
		Answer:   "Employers can post a vacancy from the dashboard: click Post a Job, fill in the title, description, category and salary range, then publish. Your listing appears on the Avenue job board immediately.",
	},
	{
		Question: "How do I verify my email address?",
		Answer:   "After signing up we send a verification link to your inbox. Click it within 24 hours to activate your account. If it expired or never arrived, use Resend Verification on the login page and check your spam folder.",
	},
	{
		Question: "What payment methods are accepted?",
		Answer:   "We accept MTN Mobile Money, Vodafone Cash, AirtelTigo Money and Visa or Mastercard. All payments are processed securely and a receipt is emailed to you right away.",
	},
	{
		Question: "How do I reset my password?",
		Answer:   "Click Forgot Password on the login page and enter the email you registered with. We will send you a reset link that stays valid for one hour.",
	},
	{
		Question: "Can I apply for multiple jobs at once?",
		Answer:   "Yes. There is no limit on applications. Each application is tracked separately in your dashboard so you can follow up on every vacancy you applied to.",
	},
	{
		Question: "How do I become a trainer on the platform?",
		Answer:   "Sign up with the trainer role, complete your profile with your qualifications and areas of expertise, and submit it for review. Our team approves trainer profiles within two working days.",
	},
	{
		Question: "How do I contact customer support?",
		Answer:   "You can reach our support team at support@avenue.example or call +233 20 000 0000 on weekdays between 8am and 5pm. You can also use the Contact Admin form in your dashboard.",
	},
	{
		Question: "What is the Avenue job board?",
		Answer:   "The Avenue job board is the central listing of every open vacancy and training opportunity on the platform. You can filter by category, location and salary range, and save searches to get alerts for new postings.",
	},
	{
		Question: "How do I delete my account?",
		Answer:   "Open Settings from your dashboard and choose Delete Account at the bottom of the page. Your profile, applications and resume are removed permanently within 48 hours.",
	},
}

// JobSearchTips is shown by the job-seeker topic when the question asks
// for advice rather than mechanics.
var JobSearchTips = []string{
	"Complete your profile fully; listings with complete profiles get three times more employer views.",
	"Set up a saved search on the Avenue job board so new vacancies in your field reach your inbox first.",
	"Tailor your application message to each vacancy instead of sending the same text everywhere.",
	"Apply early. Most employers shortlist within the first week of posting.",
}

// ResumeTips is shown by the resume topic for advice-style questions.
var ResumeTips = []string{
	"Keep your resume to two pages at most and lead with your most recent experience.",
	"Use the job description's own keywords; many employers filter applications by them.",
	"Quantify achievements where you can, for example 'grew sales by 20%' rather than 'improved sales'.",
	"Export to PDF before uploading so your formatting survives on every device.",
}

// GenericResponses is the rotation used when nothing else matches. The
// fallback responder picks one uniformly at random; index 0 doubles as
// the deterministic hard-fallback default.
var GenericResponses = []string{
	"I can help with anything about the Avenue platform: finding jobs, posting vacancies, training programs, resumes, payments and account settings. What would you like to know?",
	"I'm not sure I caught that. You can ask me about job searching, posting a vacancy, becoming a trainer, uploading your resume, or payments on Avenue.",
	"Could you rephrase that? I answer questions about the Avenue job portal, such as how to register, how to apply for jobs, or how subscriptions work.",
	"I didn't find an answer for that one. Try asking about the job board, your account, resumes, training programs or payments, and I'll do my best.",
}

// WelcomeForRole returns the greeting sent when a conversation starts or
// is cleared, keyed by the connected user's role.
func WelcomeForRole(role string) string {
	switch role {
	case "job_seeker", "jobseeker":
		return "Welcome back to Avenue! I can help you search the job board, polish your resume, or track your applications. What are you looking for today?"
	case "employer":
		return "Welcome back to Avenue! I can help you post vacancies, review candidates, or manage your subscription. What would you like to do?"
	case "trainer":
		return "Welcome back to Avenue! I can help you publish training programs, manage trainees, or update your trainer profile. How can I help?"
	case "trainee":
		return "Welcome back to Avenue! I can help you find training programs, track your progress, or connect with trainers. What would you like to know?"
	default:
		return "Hello! I'm the Avenue assistant. Ask me anything about finding jobs, hiring, training programs, resumes or payments on the platform."
	}
}
