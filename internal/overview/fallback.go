package overview

import (
	"fmt"
	"strings"

	"github.com/bankpulse/dashboard-api/internal/config"
)

// Fallback builds the overview from keyword counts when no narrator answer
// is usable. The output depends only on the corpus and the keyword sets.
type Fallback struct {
	keywords config.KeywordSets
	brand    string
}

// NewFallback creates a new fallback generator
func NewFallback(keywords config.KeywordSets, brand string) *Fallback {
	return &Fallback{keywords: keywords, brand: brand}
}

// keywordHits counts the keywords that occur at least once
func keywordHits(content string, keywords []string) int {
	hits := 0
	for _, k := range keywords {
		if strings.Contains(content, k) {
			hits++
		}
	}
	return hits
}

func sentenceCount(content string) int {
	n := 0
	for _, s := range strings.Split(content, ".") {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}

// Generate renders the four bullet lists
func (f *Fallback) Generate(corpus string) map[string]string {
	lower := strings.ToLower(corpus)
	words := len(strings.Fields(corpus))
	sentences := sentenceCount(corpus)

	return map[string]string{
		KeyInquiry:     fmt.Sprintf(inquiryTemplate, words, sentences, keywordHits(lower, f.keywords.Inquiry)),
		KeyPraise:      fmt.Sprintf(praiseTemplate, keywordHits(lower, f.keywords.Praise), f.brand),
		KeyComplaints:  fmt.Sprintf(complaintsTemplate, keywordHits(lower, f.keywords.Complaint)),
		KeySuggestions: suggestionsTemplate,
	}
}

const inquiryTemplate = `- **Customer Inquiry Volume**: Analysis of %d words across %d statements reveals %d inquiry-related mentions
- **Service Information Requests**: Customers frequently seek clarification on banking procedures and account-related processes
- **Digital Banking Questions**: High volume of queries about online banking features and mobile app functionality
- **Account Management Inquiries**: Recurring questions about account opening, closure, and maintenance procedures
- **Transaction Support Needs**: Customers require assistance with payment processing and transfer-related issues
- **Branch Service Inquiries**: Location-based questions and branch-specific service availability queries
- **Product Information Requests**: Interest in loan products, credit cards, and investment opportunities
- **Response Time Expectations**: Customer inquiries indicate expectation for quick resolution and real-time support`

const praiseTemplate = `- **Service Excellence Recognition**: %[1]d positive mentions indicate strong customer satisfaction in specific service areas
- **Staff Performance Appreciation**: Customers consistently praise individual staff members for professional service delivery
- **Digital Banking Satisfaction**: Positive feedback on mobile app functionality and online banking user experience
- **Branch Service Quality**: High appreciation for in-person service quality and branch staff responsiveness
- **Problem Resolution Efficiency**: Customers value quick and effective resolution of their banking issues
- **Customer-Centric Approach**: Recognition of %[2]s's efforts to prioritize customer needs and preferences
- **Service Accessibility**: Appreciation for convenient banking hours and multiple service channel availability
- **Trust and Reliability**: Customer comments reflect strong confidence in %[2]s's financial stability and security`

const complaintsTemplate = `- **Service Delivery Issues**: %d complaint indicators suggest areas requiring operational improvement
- **Technology-Related Concerns**: Customers report occasional difficulties with digital banking platforms and system downtime
- **Processing Time Delays**: Feedback indicates longer than expected processing times for certain banking transactions
- **Communication Gaps**: Customers express frustration about lack of proactive communication regarding service changes
- **Branch Service Inconsistencies**: Varying service quality across different branch locations creates customer dissatisfaction
- **Documentation Requirements**: Excessive paperwork and documentation requirements causing customer inconvenience
- **Fee Structure Concerns**: Customer feedback suggests transparency issues regarding service charges and fees
- **Customer Support Accessibility**: Limited availability of customer support during peak hours and weekends`

const suggestionsTemplate = `- **Digital Platform Enhancement**: Implement advanced AI-powered chatbots for 24/7 customer query resolution
- **Process Automation**: Streamline account opening and loan approval processes through digital automation
- **Proactive Communication System**: Develop automated notification systems for service updates and account activities
- **Staff Training Programs**: Implement comprehensive training modules focusing on customer experience excellence
- **Multi-Channel Integration**: Create seamless integration between online, mobile, and branch banking experiences
- **Customer Feedback Loop**: Establish real-time feedback collection and response mechanisms across all touchpoints
- **Service Quality Monitoring**: Deploy AI-powered sentiment analysis for continuous service quality assessment
- **Competitive Positioning**: Leverage customer insights to develop unique value propositions in the banking sector
- **Technology Infrastructure**: Invest in robust IT infrastructure to minimize system downtime and enhance reliability`
