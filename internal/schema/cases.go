package schema

// registry holds one schema per case type. Every field referenced by a
// question has exactly one descriptor; registryInvariants in the tests
// enforces this.
var registry = map[CaseType]*CaseSchema{
	CasePhishingSMS: {
		Type:  CasePhishingSMS,
		Title: "Phishing SMS Report",
		Questions: []FieldQuestion{
			{Field: "complainant.name", Prompt: "What is your full name?", PromptAr: "ما هو اسمك الكامل؟"},
			{Field: "complainant.phone", Prompt: "What is your phone number?", PromptAr: "ما هو رقم هاتفك؟"},
			{Field: "incident.date", Prompt: "When did you receive the phishing SMS?", PromptAr: "متى استلمت الرسالة الاحتيالية؟", AllowSkip: true},
			{Field: "incident.senderNumber", Prompt: "What number or sender name did the SMS come from?", PromptAr: "من أي رقم أو جهة وصلتك الرسالة؟", AllowSkip: true},
			{Field: "incident.messageText", Prompt: "What did the message say? Please share the full text if you can.", PromptAr: "ماذا جاء في الرسالة؟", AllowSkip: true},
			{Field: "incident.clickedLink", Prompt: "Did you click any link in the message?", PromptAr: "هل ضغطت على أي رابط في الرسالة؟"},
			{Field: "incident.sharedInfo", Prompt: "What information did you share, if any? (none, bank details, ID number, passwords, other)", PromptAr: "ما المعلومات التي شاركتها، إن وجدت؟", AllowSkip: true},
			{Field: "incident.financialLoss", Prompt: "How much money did you lose, in Qatari Riyals?", PromptAr: "كم خسرت من المال بالريال القطري؟", AllowSkip: true},
		},
		Fields: map[string]FieldDescriptor{
			"complainant.name":      {Type: FieldString, Required: true},
			"complainant.phone":     {Type: FieldString, Required: true},
			"incident.date":         {Type: FieldDate, Required: true},
			"incident.senderNumber": {Type: FieldString, Required: false},
			"incident.messageText":  {Type: FieldText, Required: true},
			"incident.clickedLink":  {Type: FieldBoolean, Required: true},
			"incident.sharedInfo":   {Type: FieldEnum, Required: false, Options: []string{"none", "bank_details", "id_number", "passwords", "other"}},
			"incident.financialLoss": {Type: FieldNumber, Required: false},
		},
	},
	CasePhishingEmail: {
		Type:  CasePhishingEmail,
		Title: "Phishing Email Report",
		Questions: []FieldQuestion{
			{Field: "complainant.name", Prompt: "What is your full name?", PromptAr: "ما هو اسمك الكامل؟"},
			{Field: "complainant.email", Prompt: "What is your email address?", PromptAr: "ما هو بريدك الإلكتروني؟"},
			{Field: "incident.date", Prompt: "When did you receive the phishing email?", PromptAr: "متى استلمت البريد الاحتيالي؟", AllowSkip: true},
			{Field: "incident.senderAddress", Prompt: "What address did the email come from?", PromptAr: "من أي عنوان وصلك البريد؟", AllowSkip: true},
			{Field: "incident.subject", Prompt: "What was the subject line of the email?", PromptAr: "ما هو عنوان الرسالة؟", AllowSkip: true},
			{Field: "incident.openedAttachment", Prompt: "Did you open any attachment or link?", PromptAr: "هل فتحت أي مرفق أو رابط؟"},
			{Field: "incident.sharedInfo", Prompt: "What information did you share, if any? (none, bank details, ID number, passwords, other)", PromptAr: "ما المعلومات التي شاركتها؟", AllowSkip: true},
		},
		Fields: map[string]FieldDescriptor{
			"complainant.name":           {Type: FieldString, Required: true},
			"complainant.email":          {Type: FieldString, Required: true},
			"incident.date":              {Type: FieldDate, Required: true},
			"incident.senderAddress":     {Type: FieldString, Required: false},
			"incident.subject":           {Type: FieldString, Required: false},
			"incident.openedAttachment":  {Type: FieldBoolean, Required: true},
			"incident.sharedInfo":        {Type: FieldEnum, Required: false, Options: []string{"none", "bank_details", "id_number", "passwords", "other"}},
		},
	},
	CaseOnlineFraud: {
		Type:  CaseOnlineFraud,
		Title: "Online Fraud Report",
		Questions: []FieldQuestion{
			{Field: "complainant.name", Prompt: "What is your full name?", PromptAr: "ما هو اسمك الكامل؟"},
			{Field: "complainant.phone", Prompt: "What is your phone number?", PromptAr: "ما هو رقم هاتفك؟"},
			{Field: "incident.date", Prompt: "When did the fraud take place?", PromptAr: "متى وقع الاحتيال؟", AllowSkip: true},
			{Field: "incident.platform", Prompt: "On which platform or website did it happen?", PromptAr: "على أي منصة أو موقع حدث ذلك؟"},
			{Field: "incident.description", Prompt: "Please describe what happened in your own words.", PromptAr: "صف ما حدث بكلماتك."},
			{Field: "incident.amountLost", Prompt: "How much money did you lose, in Qatari Riyals?", PromptAr: "كم خسرت من المال بالريال القطري؟", AllowSkip: true},
			{Field: "incident.paymentMethod", Prompt: "How did you pay? (bank transfer, credit card, cash, crypto, other)", PromptAr: "كيف دفعت؟", AllowSkip: true},
			{Field: "incident.evidenceItems", Prompt: "What evidence do you have? List items separated by commas (e.g. screenshots, receipts, chat logs).", PromptAr: "ما الأدلة المتوفرة لديك؟", AllowSkip: true},
		},
		Fields: map[string]FieldDescriptor{
			"complainant.name":       {Type: FieldString, Required: true},
			"complainant.phone":      {Type: FieldString, Required: true},
			"incident.date":          {Type: FieldDate, Required: true},
			"incident.platform":      {Type: FieldString, Required: true},
			"incident.description":   {Type: FieldText, Required: true},
			"incident.amountLost":    {Type: FieldNumber, Required: true},
			"incident.paymentMethod": {Type: FieldEnum, Required: false, Options: []string{"bank_transfer", "credit_card", "cash", "crypto", "other"}},
			"incident.evidenceItems": {Type: FieldArray, Required: false},
		},
	},
	CaseAccountHack: {
		Type:  CaseAccountHack,
		Title: "Hacked Account Report",
		Questions: []FieldQuestion{
			{Field: "complainant.name", Prompt: "What is your full name?", PromptAr: "ما هو اسمك الكامل؟"},
			{Field: "complainant.phone", Prompt: "What is your phone number?", PromptAr: "ما هو رقم هاتفك؟"},
			{Field: "incident.date", Prompt: "When did you notice the account was compromised?", PromptAr: "متى لاحظت اختراق الحساب؟", AllowSkip: true},
			{Field: "incident.accountType", Prompt: "What kind of account was hacked? (email, social media, bank, government services, other)", PromptAr: "ما نوع الحساب المخترق؟"},
			{Field: "incident.stillLockedOut", Prompt: "Are you still locked out of the account?", PromptAr: "هل ما زلت غير قادر على الدخول؟"},
			{Field: "incident.description", Prompt: "Describe what the attacker did with the account, as far as you know.", PromptAr: "صف ما فعله المخترق بالحساب.", AllowSkip: true},
		},
		Fields: map[string]FieldDescriptor{
			"complainant.name":        {Type: FieldString, Required: true},
			"complainant.phone":       {Type: FieldString, Required: true},
			"incident.date":           {Type: FieldDate, Required: true},
			"incident.accountType":    {Type: FieldEnum, Required: true, Options: []string{"email", "social_media", "bank", "government_services", "other"}},
			"incident.stillLockedOut": {Type: FieldBoolean, Required: true},
			"incident.description":    {Type: FieldText, Required: false},
		},
	},
	CaseOnlineHarassment: {
		Type:  CaseOnlineHarassment,
		Title: "Online Harassment Report",
		Questions: []FieldQuestion{
			{Field: "complainant.name", Prompt: "What is your full name?", PromptAr: "ما هو اسمك الكامل؟"},
			{Field: "complainant.phone", Prompt: "What is your phone number?", PromptAr: "ما هو رقم هاتفك؟"},
			{Field: "incident.startDate", Prompt: "When did the harassment start?", PromptAr: "متى بدأ التحرش أو الإساءة؟", AllowSkip: true},
			{Field: "incident.platform", Prompt: "On which platform is the harassment happening?", PromptAr: "على أي منصة يحدث ذلك؟"},
			{Field: "incident.knowsOffender", Prompt: "Do you know who is behind it?", PromptAr: "هل تعرف من يقف وراء ذلك؟"},
			{Field: "incident.description", Prompt: "Describe the harassment. Include anything that was said or sent.", PromptAr: "صف ما حدث."},
			{Field: "incident.evidenceItems", Prompt: "What evidence do you have? List items separated by commas.", PromptAr: "ما الأدلة المتوفرة لديك؟", AllowSkip: true},
		},
		Fields: map[string]FieldDescriptor{
			"complainant.name":        {Type: FieldString, Required: true},
			"complainant.phone":       {Type: FieldString, Required: true},
			"incident.startDate":      {Type: FieldDate, Required: false},
			"incident.platform":       {Type: FieldString, Required: true},
			"incident.knowsOffender":  {Type: FieldBoolean, Required: true},
			"incident.description":    {Type: FieldText, Required: true},
			"incident.evidenceItems":  {Type: FieldArray, Required: false},
		},
	},
	CaseGeneral: {
		Type:  CaseGeneral,
		Title: "General Legal Inquiry",
		Questions: []FieldQuestion{
			{Field: "complainant.name", Prompt: "What is your full name?", PromptAr: "ما هو اسمك الكامل؟"},
			{Field: "complainant.phone", Prompt: "What is your phone number?", PromptAr: "ما هو رقم هاتفك؟"},
			{Field: "inquiry.date", Prompt: "When did the matter you are asking about occur?", PromptAr: "متى وقعت المسألة التي تسأل عنها؟", AllowSkip: true},
			{Field: "inquiry.description", Prompt: "Please describe your legal question or situation.", PromptAr: "صف سؤالك القانوني أو وضعك."},
		},
		Fields: map[string]FieldDescriptor{
			"complainant.name":    {Type: FieldString, Required: true},
			"complainant.phone":   {Type: FieldString, Required: true},
			"inquiry.date":        {Type: FieldDate, Required: false},
			"inquiry.description": {Type: FieldText, Required: true},
		},
	},
}
