package patterns

func synonymGroups() []SynonymGroup {
	return []SynonymGroup{
		{Canonical: "имя", Synonyms: []string{
			"name", "first_name", "given_name", "имя", "им", "fname", "first", "имя_клиента", "клиент",
			"client_name", "contact_name", "firstname", "forename", "personal_name", "имя_сотрудника",
			"employee_name", "имя_пользователя", "user_name", "имя_контакта", "contact_firstname",
			"person_name", "имя_человека",
		}},
		{Canonical: "фамилия", Synonyms: []string{
			"surname", "last_name", "family_name", "фамилия", "lname", "last", "фамилию", "фамилия_клиента",
			"client_lastname", "contact_lastname", "lastname", "familyname", "surname_name",
			"фамилия_сотрудника", "employee_lastname", "фамилия_пользователя", "user_lastname",
			"фамилия_контакта", "person_lastname", "second_name",
		}},
		{Canonical: "электронная_почта", Synonyms: []string{
			"email", "mail", "e_mail", "email_address", "почта", "мыло", "e-mail", "mail_address",
			"email_contact", "contact_email", "emailaddr", "electronic_mail", "mail_addr", "email_addr",
			"электронный_адрес", "email_адрес", "почтовый_адрес", "user_email", "work_email",
			"personal_email", "business_email", "mail_box", "почтовый_ящик", "electronicmail",
			"электроннаяпочта", "электронная почта", "eлектронная_почта", "адрес_электронной_почты",
			"адрес почты", "электронная_почта_адрес", "email_пользователя", "контактная_почта",
			"рабочая_почта", "личная_почта", "персональная_почта",
		}},
		{Canonical: "телефон", Synonyms: []string{
			"phone", "telephone", "mobile", "cell", "телефон", "тел", "phone_number", "mobile_phone",
			"cell_phone", "contact_phone", "tel", "phone_no", "telephone_number", "mobile_number",
			"cell_number", "phone_num", "tel_number", "контактный_телефон", "work_phone", "home_phone",
			"business_phone", "personal_phone", "phone_mobile", "мобильный", "сотовый", "номер_телефона",
			"phone_contact", "tel_no", "phone_ext", "telephone_ext", "phone_extension", "рабочий_телефон",
			"домашний_телефон", "телефонный_номер", "мобильный_телефон", "рабочий_номер", "личный_телефон",
		}},
		{Canonical: "компания", Synonyms: []string{
			"company", "organization", "org", "firm", "компания", "организация", "workplace", "employer",
			"business", "corp", "corporation", "work_company", "client_company", "company_name", "org_name",
			"firm_name", "business_name", "corp_name", "organization_name", "workplace_name",
			"employer_name", "название_компании", "организация_работы", "фирма", "предприятие",
			"работодатель", "бизнес", "корпорация", "юрлицо", "client_organization", "partner_company",
			"vendor_company", "supplier_company", "service_company", "client_firm",
			"компания_работодателя", "фирма_работодателя", "предприятие_работы",
		}},
		{Canonical: "должность", Synonyms: []string{
			"position", "job_title", "role", "title", "должность", "позиция", "job", "position_title",
			"job_role", "work_position", "role_title", "position_name", "role_name", "work_role",
			"job_position", "employment_title", "work_title", "position_role", "должность_работы",
			"профессия", "специальность", "рабочая_позиция", "трудовая_функция", "job_function",
			"work_function", "position_level", "job_level", "role_level", "seniority", "rank", "grade",
			"job_grade", "должность_работника", "профессиональный_статус", "должностные_обязанности",
		}},
		{Canonical: "город", Synonyms: []string{
			"city", "town", "location", "город", "city_name", "town_name", "work_city", "contact_city",
			"city_location", "town_location", "место", "населенный_пункт", "городок", "location_city",
			"address_city", "work_town", "hometown", "resident_city", "living_city", "city_of_residence",
			"город_проживания", "город_жительства", "местожительство",
		}},
		{Canonical: "страна", Synonyms: []string{
			"country", "nation", "страна", "country_code", "country_name", "nation_name", "country_region",
			"nation_region", "государство", "страна_код", "country_iso", "nation_iso",
			"country_of_residence", "nationality", "citizenship", "гражданство", "родина",
			"страна_гражданства",
		}},
		{Canonical: "адрес", Synonyms: []string{
			"address", "location", "addr", "адрес", "address_line", "street_address", "work_address",
			"contact_address", "address_line1", "address_line2", "street", "улица", "адрес_проживания",
			"home_address", "workplace_address", "full_address", "complete_address", "address_location",
			"location_address", "resident_address", "почтовый_адрес", "адрес_регистрации",
			"юридический_адрес",
		}},
		{Canonical: "телеграмма", Synonyms: []string{
			"telegram", "tg", "telegram_handle", "телеграм", "tg_username", "telegram_user", "tg_handle",
			"telegram_id", "tg_id", "telegram_username", "telegram_link", "telegram_profile", "tg_profile",
			"telegram_account", "tg_account", "телеграм_аккаунт", "телеграм_профиль", "telegram_никнейм",
			"tg_никнейм", "телеграм_контакт", "telegram_контакт", "телеграммный_адрес", "telegram_адрес",
		}},
		{Canonical: "linkedin_url", Synonyms: []string{
			"linkedin", "linked_in", "linkedin_profile", "linkedin_url", "linkedin_link", "social_linkedin",
			"linkedin_handle", "linkedin_username", "linkedin_id", "linkedin_account",
			"linkedin_profile_url", "linkedin_profile_link", "linkedin_network", "linkedin_social",
			"linkedin_connect", "linkedin_профиль", "linkedin_контакт", "linkedin_адрес", "linkedin_ссылка",
		}},
		{Canonical: "создано_в", Synonyms: []string{
			"created_at", "created", "creation_date", "date_created", "создано", "created_time",
			"timestamp_created", "date_added", "creation_timestamp", "date_of_creation", "time_created",
			"created_on", "creation_time", "timestamp_creation", "date_inserted", "time_inserted",
			"inserted_at", "inserted_on", "registration_date", "signup_date", "дата_создания",
			"время_создания", "момент_создания", "когда_создано",
		}},
		{Canonical: "обновлено_в", Synonyms: []string{
			"updated_at", "updated", "modification_date", "date_updated", "обновлено", "modified",
			"timestamp_updated", "date_modified", "modification_timestamp", "date_of_modification",
			"time_updated", "updated_on", "modification_time", "timestamp_modification", "last_updated",
			"last_modified", "recently_updated", "date_changed", "time_changed", "changed_at",
			"дата_обновления", "время_обновления", "момент_обновления", "когда_обновлено",
		}},
		{Canonical: "день_рождения", Synonyms: []string{
			"birthday", "birth_date", "dob", "date_of_birth", "день_рождения", "birthday_date", "birth_day",
			"birth_timestamp", "time_of_birth", "born_on", "born_date", "birth_datetime", "date_born",
			"birthday_timestamp", "dob_date", "birth_day_date", "дата_рождения", "время_рождения",
		}},
		{Canonical: "аватар_url", Synonyms: []string{
			"avatar", "photo", "picture", "image_url", "profile_image", "аватар", "фото", "profile_photo",
			"user_photo", "picture_url", "profile_picture", "user_avatar", "avatar_image", "photo_url",
			"picture_link", "image_link", "profile_pic", "user_picture", "avatar_url", "photo_link",
			"image_src", "profile_src", "avatar_src", "фотография", "аватарка", "изображение", "картинка",
			"фотография_пользователя", "profile_image_url",
		}},
		{Canonical: "примечания", Synonyms: []string{
			"notes", "comments", "description", "remarks", "примечания", "заметки", "note", "comment",
			"user_notes", "additional_notes", "extra_notes", "special_notes", "important_notes",
			"personal_notes", "work_notes", "description_text", "comment_text", "note_text", "remark_text",
			"annotation", "memo", "memorandum", "дополнительная_информация", "комментарии", "описание",
			"замечания", "пояснения", "bio", "биография", "about", "about_me", "profile", "profile_info",
			"personal_info", "summary", "professional_summary", "work_description",
			"personal_description", "profile_description", "био", "обо_мне", "профиль",
		}},
		{Canonical: "источник", Synonyms: []string{
			"source", "origin", "from", "источник", "source_system", "data_source", "origin_source",
			"source_type", "origin_type", "source_category", "origin_category", "source_name",
			"origin_name", "source_reference", "origin_reference", "source_id", "origin_id",
			"source_location", "origin_location", "источник_данных", "происхождение", "откуда",
			"место_источника",
		}},
		{Canonical: "идентификатор", Synonyms: []string{
			"id", "identifier", "uuid", "primary_key", "идентификатор", "user_id", "record_id", "entity_id",
			"unique_id", "unique_identifier", "primary_identifier", "key_id", "main_id",
			"entity_identifier", "record_identifier", "object_id", "element_id", "item_id",
			"reference_id", "guid", "unique_key", "идентификационный_номер", "уникальный_идентификатор",
			"первичный_ключ",
		}},
	}
}

// hintAliases are the English keys an LLM tends to answer with
var hintAliases = map[string]string{
	"first_name":   "имя",
	"name":         "имя",
	"full_name":    "имя",
	"last_name":    "фамилия",
	"surname":      "фамилия",
	"company":      "компания",
	"company_name": "компания",
	"position":     "должность",
	"job_title":    "должность",
	"job":          "должность",
	"notes":        "примечания",
	"comment":      "примечания",
	"email":        "электронная_почта",
	"phone":        "телефон",
	"mobile":       "телефон",
	"linkedin":     "linkedin_url",
	"telegram":     "телеграмма",
	"country":      "страна",
	"rating":       "рейтинг",
	"network":      "сеть",
	"website":      "website",
	"birth_date":   "день_рождения",
	"birthday":     "день_рождения",
	"date":         "день_рождения",
}
