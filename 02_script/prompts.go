package script

import (
	"fmt"
	"strings"

	"upsc-daily-pipeline/types"
)

const systemPrompt = `आप एक UPSC Current Affairs educator हैं जो Hindi YouTube channel के लिए script लिखते हैं।
सिर्फ वही text लिखें जो बोला जाएगा। कोई heading, bullet, markdown या [brackets] नहीं।`

var ordinals = []string{
	"पहली", "दूसरी", "तीसरी", "चौथी", "पांचवीं",
	"छठी", "सातवीं", "आठवीं", "नौवीं", "दसवीं",
}

// Ordinal returns the spoken opener for the 1-based item index.
func Ordinal(n int) string {
	if n >= 1 && n <= len(ordinals) {
		return ordinals[n-1]
	}
	return fmt.Sprintf("%dवीं", n)
}

// Intro is fixed text; only the date changes.
func Intro(dateDisplay string) string {
	return fmt.Sprintf("नमस्ते दोस्तों! आज की तारीख है %s। "+
		"आज हम देखेंगे Top 10 Current Affairs जो आपकी UPSC और सरकारी परीक्षा की तैयारी के लिए बहुत जरूरी हैं। "+
		"तो चलिए शुरू करते हैं।", dateDisplay)
}

func Outro() string {
	return "तो दोस्तों, यह थे आज के Top 10 Current Affairs। " +
		"PDF notes और detailed analysis के लिए description में link देखें। " +
		"अगर video helpful लगा तो like करें, share करें और channel को subscribe करना मत भूलिए। " +
		"Bell icon भी press कर दें ताकि आपको रोज़ सुबह 7 बजे notification मिल जाए। " +
		"कल फिर मिलेंगे नई खबरों के साथ। तब तक के लिए, पढ़ते रहिए। धन्यवाद!"
}

func itemPrompt(a types.Article, index int) string {
	var sb strings.Builder
	sb.WriteString("नीचे दी गई खबर पर Hindi में YouTube video script का एक हिस्सा लिखें।\n\n")
	sb.WriteString(fmt.Sprintf("खबर का शीर्षक: %s\n", a.Title))
	sb.WriteString(fmt.Sprintf("सारांश: %s\n", oneLine(a.Summary)))
	sb.WriteString(fmt.Sprintf("स्रोत: %s\n\n", a.Source))
	sb.WriteString("नियम:\n")
	sb.WriteString(fmt.Sprintf("1. शुरुआत ठीक इन शब्दों से करें: \"%s खबर:\"\n", Ordinal(index)))
	sb.WriteString("2. कुल 100 से 180 शब्द लिखें।\n")
	sb.WriteString("3. पहले बताएं क्या हुआ, फिर तथ्य (तारीख, नाम, आंकड़े) के साथ 3-4 वाक्यों में समझाएं।\n")
	sb.WriteString("4. आखिरी वाक्य में बताएं कि यह UPSC के किस paper या topic (Prelims/Mains/Essay) के लिए महत्वपूर्ण है।\n")
	sb.WriteString("5. Simple, conversational Hindi, Devanagari script. GDP, ISRO, WHO जैसे English terms चल सकते हैं।\n")
	sb.WriteString("6. कोई heading, bullet, markdown या [brackets] न लिखें।\n")
	return sb.String()
}

func bulkPrompt(doc *types.NewsDocument, maxArticles int) string {
	articles := doc.Articles
	if maxArticles > 0 && len(articles) > maxArticles {
		articles = articles[:maxArticles]
	}
	var items []string
	for i, a := range articles {
		summary := a.Summary
		if summary == "" {
			summary = "No summary"
		}
		items = append(items, fmt.Sprintf("%d. Title: %s\n   Summary: %s\n   Source: %s", i+1, a.Title, summary, a.Source))
	}

	var sb strings.Builder
	sb.WriteString("आपको आज की Top 10 news items को Hindi में एक YouTube video script बनानी है।\n\n")
	sb.WriteString(fmt.Sprintf("आज की तारीख: %s\n\n", doc.DateDisplay))
	sb.WriteString(fmt.Sprintf("Available News Articles (%d articles from multiple sources):\n", len(doc.Articles)))
	sb.WriteString(strings.Join(items, "\n\n"))
	sb.WriteString("\n\nINSTRUCTIONS:\n")
	sb.WriteString("1. ऊपर दिए गए articles में से सबसे महत्वपूर्ण 10 news items select करें जो UPSC के लिए relevant हों।\n")
	sb.WriteString("2. Priority: सरकारी नीतियां और योजनाएं, विदेश नीति, अर्थव्यवस्था, पर्यावरण, विज्ञान और तकनीक, सुप्रीम कोर्ट के फैसले, पुरस्कार।\n")
	sb.WriteString("3. हर news item के लिए 3-4 वाक्य: क्या हुआ, क्यों important है, UPSC में कहाँ पूछा जा सकता है।\n")
	sb.WriteString("4. Script इस intro से शुरू करें:\n")
	sb.WriteString(Intro(doc.DateDisplay) + "\n")
	sb.WriteString("5. हर खबर \"पहली खबर:\", \"दूसरी खबर:\" ... \"दसवीं खबर:\" से शुरू करें।\n")
	sb.WriteString("6. Script इस outro पर खत्म करें:\n")
	sb.WriteString(Outro() + "\n")
	sb.WriteString("7. Simple, conversational Hindi, Devanagari script. कुल 1400-1600 शब्द।\n\n")
	sb.WriteString("Generate the complete detailed script now:")
	return sb.String()
}

// FallbackBody is built from the article alone, without a model call.
func FallbackBody(a types.Article, index int) string {
	parts := []string{fmt.Sprintf("%s खबर: %s", Ordinal(index), trimSentence(a.Title))}
	if s := trimSentence(oneLine(a.Summary)); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, "यह खबर UPSC परीक्षा के लिए महत्वपूर्ण है।")
	return strings.Join(parts, "। ")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func trimSentence(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ".।!? ")
}
