package seed

import "vocab-quiz-service/internal/domain"

// DemoUserID owns the demo dictionary loaded into the in-memory store.
const DemoUserID = "demo-user"

// Demo is a small Japanese-English dictionary for running without a database.
func Demo() Fixture {
	const dictID = "demo-ja-en"
	words := []struct{ writing, translation, pronunciation string }{
		{"猫", "cat", "neko"},
		{"犬", "dog", "inu"},
		{"鳥", "bird", "tori"},
		{"魚", "fish", "sakana"},
		{"馬", "horse", "uma"},
		{"水", "water", "mizu"},
		{"山", "mountain", "yama"},
		{"川", "river", "kawa"},
	}

	f := Fixture{
		Dictionaries: []domain.Dictionary{{
			ID:             dictID,
			Name:           "Japanese basics",
			SourceLanguage: "ja",
			TargetLanguage: "en",
			CreatedBy:      DemoUserID,
		}},
		Access: []domain.UserDictionary{{UserID: DemoUserID, DictionaryID: dictID}},
	}
	for i, w := range words {
		f.Words = append(f.Words, domain.Word{
			ID:            dictID + "-" + w.pronunciation,
			DictionaryID:  dictID,
			CreatedBy:     DemoUserID,
			Writing:       w.writing,
			Translation:   w.translation,
			Pronunciation: w.pronunciation,
			WordClass:     "noun",
			IsLearned:     i < 2,
		})
	}
	return f
}
