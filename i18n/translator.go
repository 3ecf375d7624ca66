package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "prompt_id" or "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "parse_error":
			return "解析エラー"
		case "invalid_type":
			return "型が不正です"
		case "missing_key":
			return "必須プロパティが不足しています"
		case "malformed_entry":
			return "応答エントリが不正です"
		case "unknown_survey":
			return "未知の調査IDです"
		case "unknown_prompt":
			return "未知のプロンプトIDです"
		case "unknown_repeatable_set":
			return "未知の反復セットIDです"
		case "count_mismatch":
			return "反復内のプロンプト数が一致しません"
		case "out_of_range":
			return "値が範囲外です"
		case "invalid_choice":
			return "選択肢にない値です"
		case "invalid_custom_choice":
			return "カスタム選択肢が不正です"
		case "invalid_format":
			return "書式が不正です"
		case "not_skippable":
			return "スキップできないプロンプトです"
		case "condition_violation":
			return "表示条件と矛盾しています"
		}
	default: // "en"
		switch code {
		case "parse_error":
			return "parse error"
		case "invalid_type":
			return "invalid type"
		case "missing_key":
			return "required property missing"
		case "malformed_entry":
			return "malformed response entry"
		case "unknown_survey":
			return "unknown survey id"
		case "unknown_prompt":
			return "unknown prompt id"
		case "unknown_repeatable_set":
			return "unknown repeatable set id"
		case "count_mismatch":
			return "iteration prompt count mismatch"
		case "out_of_range":
			return "value out of range"
		case "invalid_choice":
			return "value is not a configured choice"
		case "invalid_custom_choice":
			return "custom choice set is invalid"
		case "invalid_format":
			return "invalid format"
		case "not_skippable":
			return "prompt is not skippable"
		case "condition_violation":
			return "response is inconsistent with the display condition"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
