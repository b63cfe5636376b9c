package scripture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DefaultLanguages is the language set written to an empty database.
func DefaultLanguages() []Language {
	return []Language{
		{Code: "en", Name: "English", NativeName: "English", Enabled: true, IsDefault: true},
		{Code: "hi", Name: "Hindi", NativeName: "हिंदी", Enabled: true},
		{Code: "te", Name: "Telugu", NativeName: "తెలుగు", Enabled: true},
		{Code: "ta", Name: "Tamil", NativeName: "தமிழ்", Enabled: true},
		{Code: "kn", Name: "Kannada", NativeName: "ಕನ್ನಡ", Enabled: true},
		{Code: "bn", Name: "Bengali", NativeName: "বাংলা"},
		{Code: "gu", Name: "Gujarati", NativeName: "ગુજરાતી"},
		{Code: "mr", Name: "Marathi", NativeName: "मराठी"},
	}
}

// SampleVerses is the starter catalog written to an empty database. Verses
// without a translation in some language are served in the default language.
func SampleVerses() []Verse {
	return []Verse{
		{
			Ref:             Ref{Chapter: 2, Verse: 47},
			Sanskrit:        "कर्मण्येवाधिकारस्ते मा फलेषु कदाचन। मा कर्मफलहेतुर्भूर्मा ते सङ्गोऽस्त्वकर्मणि।।",
			Transliteration: "karmaṇy-evādhikāras te mā phaleṣhu kadāchana mā karma-phala-hetur bhūr mā te saṅgo 'stv akarmaṇi",
			Translations: map[string]string{
				"en": "You have a right to perform your prescribed duty, but never to the fruits of action. Never consider yourself the cause of the results of your activities, and never be attached to not doing your duty.",
				"hi": "कर्म में ही तेरा अधिकार है, फल में कभी नहीं। कर्मफल का हेतु मत बन और कर्म न करने में भी आसक्ति मत रख।",
				"te": "కర్మలో మాత్రమే నీ అధికారం, ఫలాలలో ఎప్పటికీ లేదు. కర్మఫలహేతువు అవకు, కర్మరాహిత్యంలో కూడా అనురక్తి లేకుండా ఉండు.",
				"ta": "உனக்கு கர்மத்தில் மட்டுமே அதிகாரம் உள்ளது, பலனில் ஒருபோதும் இல்லை. கர்ம பலத்தின் காரணமாக ஆகாதே, கர்மம் செய்யாமல் இருப்பதிலும் பற்று வேண்டாம்.",
				"kn": "ಕರ್ಮದಲ್ಲಿ ಮಾತ್ರ ನಿನಗೆ ಅಧಿಕಾರವಿದೆ, ಫಲದಲ್ಲಿ ಎಂದಿಗೂ ಇಲ್ಲ. ಕರ್ಮಫಲದ ಕಾರಣವಾಗಬೇಡ, ಕರ್ಮರಹಿತತೆಯಲ್ಲಿಯೂ ಆಸಕ್ತಿ ಬೇಡ.",
			},
			Meaning: "This verse teaches the fundamental principle of Karma Yoga: performing one's duty without attachment to results.",
		},
		{
			Ref:             Ref{Chapter: 2, Verse: 20},
			Sanskrit:        "न जायते म्रियते वा कदाचिन् नायं भूत्वा भविता वा न भूयः। अजो नित्यः शाश्वतोऽयं पुराणो न हन्यते हन्यमाने शरीरे।।",
			Transliteration: "na jāyate mriyate vā kadāchin nāyaṁ bhūtvā bhavitā vā na bhūyaḥ ajo nityaḥ śāśvato 'yaṁ purāṇo na hanyate hanyamāne śarīre",
			Translations: map[string]string{
				"en": "For the soul there is neither birth nor death at any time.",
				"hi": "आत्मा का न कभी जन्म होता है और न मृत्यु।",
			},
		},
		{
			Ref:          Ref{Chapter: 4, Verse: 7},
			Sanskrit:     "यदा यदा हि धर्मस्य ग्लानिर्भवति भारत।",
			Translations: map[string]string{"en": "Whenever there is a decline in righteousness and an increase in unrighteousness, O Arjuna, at that time I manifest myself on earth."},
		},
		{
			Ref:          Ref{Chapter: 3, Verse: 21},
			Sanskrit:     "यद्यदाचरति श्रेष्ठस्तत्तदेवेतरो जनः।",
			Translations: map[string]string{"en": "Whatever action a great man performs, common men follow in his footsteps."},
		},
		{
			Ref:          Ref{Chapter: 6, Verse: 5},
			Sanskrit:     "उद्धरेदात्मनात्मानं नात्मानमवसादयेत्।",
			Translations: map[string]string{"en": "One must deliver himself with the help of his mind, and not degrade himself."},
		},
		{
			Ref:          Ref{Chapter: 2, Verse: 14},
			Sanskrit:     "मात्रास्पर्शास्तु कौन्तेय शीतोष्णसुखदुःखदाः।",
			Translations: map[string]string{"en": "O son of Kunti, the nonpermanent appearance of happiness and distress are like the appearance and disappearance of winter and summer seasons."},
		},
	}
}

// ReadVerseFile parses a JSON array of verse commands.
func ReadVerseFile(path string) ([]VerseCommand, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var cmds []VerseCommand
	if err := json.Unmarshal(data, &cmds); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cmds, nil
}

// ImportResult summarises a bulk verse import.
type ImportResult struct {
	Added   int               `json:"added"`
	Skipped int               `json:"skipped"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Import adds each verse through the normal validation path. Existing
// references are skipped; invalid verses are reported and skipped.
func (l *Library) Import(ctx context.Context, cmds []VerseCommand) (ImportResult, error) {
	result := ImportResult{Errors: map[string]string{}}
	for _, cmd := range cmds {
		ref := Ref{Chapter: cmd.Chapter, Verse: cmd.Verse}
		if err := cmd.Validate(); err != nil {
			result.Errors[ref.String()] = err.Error()
			continue
		}

		_, err := l.AddVerse(ctx, cmd.ToVerse())
		switch {
		case err == nil:
			result.Added++
		case errors.Is(err, ErrDuplicateReference):
			result.Skipped++
		case errors.Is(err, ErrValidation), errors.Is(err, ErrMissingTranslation):
			result.Errors[ref.String()] = err.Error()
		default:
			return result, err
		}
	}
	return result, nil
}
