package patterns

import (
	"regexp"

	"infinite-experiment/contactimport/internal/models/dtos"
)

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(expr)
	}
	return out
}

// categories returns the value-shape categories in evaluation order.
// Patterns use find semantics; anchors are explicit where a whole value must match.
func categories() []Category {
	return []Category{
		{
			Name: "email",
			Patterns: compileAll(
				`^[^\s@]+@[^\s@]+\.[^\s@]+$`,
				`\w+@\w+\.\w+`,
				`.*@.*\..*`,
				`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`,
			),
			Exact:    []string{"email", "mail", "e_mail", "email_address", "почта", "мыло", "электронная_почта", "электроннаяпочта", "electronic_mail"},
			Partial:  []string{"emailaddr", "mailaddr", "email_contact", "contact_email", "электронная_почта", "адрес_электронной_почты"},
			Semantic: []string{"communication", "contact", "message", "сообщение", "контакт"},
		},
		{
			Name: "phone",
			Patterns: compileAll(
				`^\+?\d{10,15}$`,
				`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`,
				`\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`,
				`^\+7\d{10}$`,
				`^8\d{10}$`,
			),
			Exact:    []string{"phone", "telephone", "mobile", "cell", "телефон", "тел", "phone_number", "телефонный_номер"},
			Partial:  []string{"phone_num", "tel_number", "contact_phone", "mobile_phone", "телефонный_номер", "номер_телефона"},
			Semantic: []string{"communication", "contact", "call", "звонок", "связь"},
		},
		{
			Name: "name",
			Patterns: compileAll(
				`^[A-Za-zА-Яа-я\s\-']+$`,
				`^[A-Z][a-z]+\s[A-Z][a-z]+$`,
				`^[А-Я][а-я]+\s[А-Я][а-я]+$`,
				`^[A-Za-zА-Яа-я]{2,50}$`,
				`^[A-Z][a-z]+\s[A-Z]\.?\s*[A-Za-z]+$`,
			),
			Exact:    []string{"name", "first_name", "last_name", "имя", "фамилия", "имя_пользователя", "фамилия_пользователя"},
			Partial:  []string{"fname", "lname", "firstname", "lastname", "person_name", "имя_пользователя", "фамилия_пользователя"},
			Semantic: []string{"person", "individual", "identity", "личность", "идентичность"},
		},
		{
			Name: "company",
			Patterns: compileAll(
				`^[A-Za-zА-Яа-я0-9\s\-\.\&\,\(\)]+$`,
				`(?i)(Inc|Corp|LLC|ООО|ЗАО|ИП|Ltd|GmbH|SARL)`,
				`^[A-Z][a-zA-Z\s]+`,
				`(?i)^[A-Za-zА-Яа-я]+(?:\s+(?:Group|Solutions|Technologies|Systems|Digital|Agency|Studio))`,
			),
			Exact:    []string{"company", "organization", "org", "компания", "организация", "фирма", "предприятие"},
			Partial:  []string{"company_name", "org_name", "work_company", "client_company", "название_компании", "компания_работодателя"},
			Semantic: []string{"business", "work", "organization", "бизнес", "работа"},
		},
		{
			Name: "telegram",
			Patterns: compileAll(
				`^@[a-zA-Z0-9_]{3,32}$`,
				`^[a-zA-Z0-9_]{3,32}$`,
				`^t\.me/[a-zA-Z0-9_]{3,32}$`,
				`t\.me/[a-zA-Z0-9_]+`,
				`@[a-zA-Z0-9_]+`,
				`^[a-zA-Z0-9_]+$`,
				`https?://t\.me/[a-zA-Z0-9_]+`,
			),
			Exact:    []string{"telegram", "телеграмма", "tg", "телеграм", "telegram_handle", "tg_username", "telegram_user", "tg_handle"},
			Partial:  []string{"telegram_username", "tg_username", "telegram_user", "tg_user", "telegram_account", "tg_account", "телеграм_аккаунт"},
			Semantic: []string{"messaging", "chat", "social", "messenger", "сообщение", "чат", "соцсеть", "мессенджер"},
		},
		{
			Name: "linkedin",
			Patterns: compileAll(
				`^https?://(www\.)?linkedin\.com/in/[a-zA-Z0-9-]+`,
				`^linkedin\.com/in/[a-zA-Z0-9-]+`,
				`/in/[a-zA-Z0-9-]+`,
				`linkedin`,
				`^[a-zA-Z0-9-]{3,100}$`,
			),
			Exact:    []string{"linkedin", "linkedin_url", "linkedin_profile", "linkedin_profile_url", "linkedin_link", "linkedin_handle", "linkedin_username"},
			Partial:  []string{"linkedin_profile_url", "linkedin_link", "linkedin_account", "linkedin_personal", "linkedin_business"},
			Semantic: []string{"professional", "networking", "career", "business", "work", "профессиональный", "карьера", "бизнес"},
		},
		{
			Name: "instagram",
			Patterns: compileAll(
				`^https?://(www\.)?instagram\.com/[a-zA-Z0-9_.]+`,
				`^instagram\.com/[a-zA-Z0-9_.]+`,
				`instagram\.com`,
				`@[a-zA-Z0-9_.]+`,
				`^[a-zA-Z0-9_.]{3,30}$`,
			),
			Exact:    []string{"instagram", "instagram_url", "instagram_profile", "instagram_handle", "instagram_username", "insta", "ig"},
			Partial:  []string{"instagram_profile", "instagram_account", "instagram_user", "instagram_handle", "insta_profile"},
			Semantic: []string{"visual", "photo", "image", "social", "media", "визуальный", "фото", "изображение"},
		},
		{
			Name: "twitter",
			Patterns: compileAll(
				`^https?://(www\.)?twitter\.com/[a-zA-Z0-9_]+`,
				`^twitter\.com/[a-zA-Z0-9_]+`,
				`twitter\.com`,
				`@[a-zA-Z0-9_]+`,
				`^[a-zA-Z0-9_]{3,15}$`,
			),
			Exact:    []string{"twitter", "twitter_url", "twitter_profile", "twitter_handle", "twitter_username", "tw"},
			Partial:  []string{"twitter_profile", "twitter_account", "twitter_user", "twitter_handle", "twitter_link"},
			Semantic: []string{"microblog", "social", "post", "tweet", "микроблог", "социальный", "пост"},
		},
		{
			Name: "social_media",
			Patterns: compileAll(
				`https?://(www\.)?(facebook|instagram|twitter|linkedin|tiktok|youtube|github)\.com/[a-zA-Z0-9_.-]+`,
				`@(?:instagram|twitter|tiktok|github)[a-zA-Z0-9_.]+`,
				`(?i)(facebook|instagram|twitter|linkedin|tiktok|youtube|github)`,
				`(?i)social|profile|account`,
			),
			Exact:    []string{"social", "social_media", "social_links", "social_profiles", "social_accounts", "соцсети", "социальные_сети"},
			Partial:  []string{"social_links", "social_profiles", "social_accounts", "social_media_links", "social_networks"},
			Semantic: []string{"social", "network", "profile", "account", "социальный", "сеть", "профиль", "аккаунт"},
		},
		{
			Name: "description",
			Patterns: compileAll(
				`^.{10,}$`,
				`^[A-Za-zА-Яа-я0-9\s\-\.\,\!\?\;\:\(\)]+$`,
				`.{50,}`,
				`(?i)(?:опыт|работа|навыки|проекты|образование|квалификация)`,
				`(?i)(?:experience|skills|projects|education|qualification)`,
			),
			Exact: []string{"description", "bio", "notes", "comments", "remarks", "описание", "био", "заметки",
				"комментарии", "примечания", "about", "summary", "profile"},
			Partial: []string{"description_text", "bio_text", "profile_description", "personal_description",
				"work_description", "professional_summary", "about_me", "profile_info", "personal_info"},
			Semantic: []string{"text", "content", "information", "details", "текст", "содержание", "информация",
				"описание", "summary", "profile", "about"},
		},
		{
			Name: "position",
			Patterns: compileAll(
				`(?i)^(?:Senior|Junior|Lead|Principal|Chief|Head|Director|Manager|Specialist|Engineer|Developer|Designer|Analyst|Consultant)`,
				`(?i)(?:Developer|Engineer|Manager|Director|Analyst|Designer|Specialist|Consultant)`,
				`(?i)(?:Senior|Junior|Lead|Principal|Chief|Head)\s+(?:Developer|Engineer|Manager|Designer)`,
				`^[A-Za-zА-Яа-я\s]{5,100}$`,
			),
			Exact:    []string{"position", "job_title", "role", "title", "должность", "позиция", "должность_работника"},
			Partial:  []string{"job_position", "work_role", "position_title", "job_role", "должность_работника", "рабочая_позиция"},
			Semantic: []string{"role", "function", "job", "роль", "функция"},
		},
	}
}

func contextBuckets() []ContextBucket {
	return []ContextBucket{
		{
			Name: "personal",
			Keywords: []string{"personal", "individual", "person", "личный", "персональный", "индивидуальный",
				"contact", "communication", "контакт", "связь", "общение"},
			Categories: []string{"email", "phone", "name"},
		},
		{
			Name: "professional",
			Keywords: []string{"work", "job", "career", "business", "работа", "карьера", "бизнес", "профессия",
				"company", "organization", "компания", "организация", "фирма", "предприятие"},
			Categories: []string{"company", "position"},
		},
		{
			Name: "technical",
			Keywords: []string{"tech", "technical", "it", "software", "тех", "технический", "софт", "программный",
				"developer", "engineer", "programmer", "разработчик", "инженер", "программист"},
			Categories: []string{"position"},
		},
	}
}

var hierarchyKeywords = []string{
	"junior", "middle", "senior", "lead", "principal", "chief", "head", "director",
	"младший", "старший", "ведущий", "главный", "руководитель", "директор",
}

var departmentKeywords = []string{
	"it", "hr", "sales", "marketing", "finance", "operations", "legal",
	"ит", "кадры", "продажи", "маркетинг", "финансы", "операции", "юридический",
}

func typeClasses() map[dtos.ColumnType][]string {
	return map[dtos.ColumnType][]string{
		dtos.TypeVarchar:     {"text", "string", "varchar", "char", "nvarchar"},
		dtos.TypeText:        {"text", "string", "longtext", "mediumtext", "clob"},
		dtos.TypeInteger:     {"int", "integer", "number", "numeric", "bigint", "smallint"},
		dtos.TypeBoolean:     {"bool", "boolean", "bit", "yesno", "flag"},
		dtos.TypeTimestampTZ: {"timestamp", "datetime", "date", "time", "created_at", "updated_at"},
		dtos.TypeUUID:        {"uuid", "guid", "unique_id", "uniqueidentifier"},
		dtos.TypeJSONB:       {"json", "jsonb", "object", "array", "text"},
		dtos.TypeDate:        {"date", "datetime", "timestamp"},
	}
}
