package engine

import (
	"fmt"
	"strings"

	"github.com/qanoon-app/qanoon/internal/schema"
)

const conversationSystemEn = `You are a legal assistant for Qatar. You answer questions about Qatari law in plain language, with empathy and without inventing statutes. If the user describes an incident that could be reported (phishing, fraud, hacking, harassment), gently mention that you can guide them through filing a structured report. Never present yourself as a substitute for a licensed lawyer.`

const conversationSystemAr = `أنت مساعد قانوني في دولة قطر. أجب عن الأسئلة المتعلقة بالقانون القطري بلغة واضحة وبتعاطف دون اختلاق مواد قانونية. إذا وصف المستخدم حادثة يمكن الإبلاغ عنها، اذكر بلطف أنه يمكنك إرشاده خلال تقديم بلاغ منظم. لا تقدم نفسك كبديل عن محامٍ مرخص.`

func conversationSystemPrompt(language string) string {
	if language == "ar" {
		return conversationSystemAr
	}
	return conversationSystemEn
}

// affirmatives answer the "start the checklist now?" confirmation.
var affirmatives = []string{
	"yes", "yeah", "yep", "sure", "ok", "okay", "go ahead", "start", "proceed", "please do",
	"نعم", "اي", "ايوه", "أجل", "تمام", "موافق",
}

func isAffirmative(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, a := range affirmatives {
		if strings.Contains(lower, a) {
			return true
		}
	}
	return false
}

func confirmStartQuestion(language string) string {
	if language == "ar" {
		return "هل ترغب في بدء قائمة أسئلة البلاغ الآن؟"
	}
	return "Would you like to start the report checklist now?"
}

func confirmOptions(language string) []string {
	if language == "ar" {
		return []string{"نعم، ابدأ", "ليس الآن"}
	}
	return []string{"Yes, start the checklist", "Not yet"}
}

func checklistIntro(language string, sch *schema.CaseSchema) string {
	if language == "ar" {
		return fmt.Sprintf("سنبدأ الآن بجمع تفاصيل: %s. يمكنك كتابة \"تخطي\" لأي سؤال اختياري.\n\n", sch.Title)
	}
	return fmt.Sprintf("Let's collect the details for your %s. You can answer \"skip\" for any optional question.\n\n", sch.Title)
}

func questionText(q *schema.FieldQuestion, language string) string {
	if language == "ar" && q.PromptAr != "" {
		return q.PromptAr
	}
	return q.Prompt
}

// clarifyRequired prefixes the re-ask when a skip-disallowed question was
// skipped or could not be answered.
func clarifyRequired(language string) string {
	if language == "ar" {
		return "هذه المعلومة ضرورية لمتابعة البلاغ. "
	}
	return "I do need this detail to proceed with the report. "
}

// clarifyInvalid prefixes the re-ask when the extracted value failed
// validation.
func clarifyInvalid(language string) string {
	if language == "ar" {
		return "عذراً، لم أتمكن من تسجيل هذه الإجابة. "
	}
	return "Sorry, I couldn't record that answer. "
}

func missingFieldsReply(language string, missing []string) string {
	if language == "ar" {
		return fmt.Sprintf("ما زالت بعض المعلومات المطلوبة ناقصة: %s. ", strings.Join(missing, "، "))
	}
	return fmt.Sprintf("Some required details are still missing: %s. ", strings.Join(missing, ", "))
}

func postAnalysisOptions(language string) []string {
	if language == "ar" {
		return []string{"تقديم شكوى رسمية", "عرض أرقام التواصل"}
	}
	return []string{"File a formal complaint", "Show contact information"}
}

func apology(language string) string {
	if language == "ar" {
		return "أعتذر، حدث خلل من جهتنا. الرجاء إعادة إرسال رسالتك الأخيرة."
	}
	return "I'm sorry, something went wrong on my side. Please try sending that message again."
}

func emptyMessageReply(language string) string {
	if language == "ar" {
		return "لم أستلم أي رسالة. كيف يمكنني مساعدتك؟"
	}
	return "I didn't receive a message. How can I help you?"
}

func complaintInstructions(language string, contactsBlock string) string {
	if language == "ar" {
		return "لتقديم شكوى رسمية، يمكنك التوجه إلى أقرب مركز شرطة أو استخدام تطبيق مطراش٢، مع إحضار تقرير الحالة والأدلة المذكورة فيه. جهات الاتصال المختصة:\n" + contactsBlock
	}
	return "To file a formal complaint, take your case report and the evidence it lists to the nearest police station, or submit it through the Metrash2 app. The competent authorities are:\n" + contactsBlock
}
