package l10n

// Message keys.
const (
	KeyLoading       = "loading"
	KeyErrorTitle    = "error_title"
	KeyEmptyTitle    = "empty_title"
	KeyEmptyMessage  = "empty_message"
	KeyChapter       = "chapter"
	KeySpeed         = "speed"
	KeyVoice         = "voice"
	KeyStatePlaying  = "state_playing"
	KeyStateStopped  = "state_stopped"
	KeyStateIdle     = "state_idle"
	KeyModeNative    = "mode_native"
	KeyModeNeural    = "mode_neural"
	KeyModeSilent    = "mode_silent"
	KeySearch        = "search_placeholder"
	KeyCopied        = "toast_copied"
	KeyCopyFailed    = "toast_copy_failed"
	KeyReloaded      = "toast_reloaded"
	KeyResumed       = "toast_resumed"
	KeyNoMatch       = "toast_no_match"
	KeyTheme         = "toast_theme"
	KeyNarrationFail = "toast_narration_failed"
)

var translations = map[string]map[string]string{
	"pt-BR": {
		KeyLoading:       "Processando %s…",
		KeyErrorTitle:    "Não foi possível abrir o documento",
		KeyEmptyTitle:    "Nada para ler",
		KeyEmptyMessage:  "Nenhuma frase legível foi encontrada neste documento.",
		KeyChapter:       "Capítulo %s",
		KeySpeed:         "Velocidade %s",
		KeyVoice:         "Voz %s",
		KeyStatePlaying:  "Reproduzindo",
		KeyStateStopped:  "Pausado",
		KeyStateIdle:     "Ocioso",
		KeyModeNative:    "Nativa",
		KeyModeNeural:    "IA",
		KeyModeSilent:    "Silenciosa",
		KeySearch:        "Buscar frases",
		KeyCopied:        "Frase copiada",
		KeyCopyFailed:    "Não foi possível copiar: %v",
		KeyReloaded:      "Documento recarregado",
		KeyResumed:       "Retomado na frase %d",
		KeyNoMatch:       "Nenhum resultado para %q",
		KeyTheme:         "Tema %s",
		KeyNarrationFail: "Falha na narração: %v",
	},
	"en-US": {
		KeyLoading:       "Processing %s…",
		KeyErrorTitle:    "Could not open the document",
		KeyEmptyTitle:    "Nothing to read",
		KeyEmptyMessage:  "No readable sentences were found in this document.",
		KeyChapter:       "Chapter %s",
		KeySpeed:         "Speed %s",
		KeyVoice:         "Voice %s",
		KeyStatePlaying:  "Playing",
		KeyStateStopped:  "Paused",
		KeyStateIdle:     "Idle",
		KeyModeNative:    "Native",
		KeyModeNeural:    "AI",
		KeyModeSilent:    "Silent",
		KeySearch:        "Search sentences",
		KeyCopied:        "Sentence copied",
		KeyCopyFailed:    "Could not copy: %v",
		KeyReloaded:      "Document reloaded",
		KeyResumed:       "Resumed at sentence %d",
		KeyNoMatch:       "No match for %q",
		KeyTheme:         "Theme %s",
		KeyNarrationFail: "Narration failed: %v",
	},
	"es-ES": {
		KeyLoading:       "Procesando %s…",
		KeyErrorTitle:    "No se pudo abrir el documento",
		KeyEmptyTitle:    "Nada que leer",
		KeyEmptyMessage:  "No se encontraron frases legibles en este documento.",
		KeyChapter:       "Capítulo %s",
		KeySpeed:         "Velocidad %s",
		KeyVoice:         "Voz %s",
		KeyStatePlaying:  "Reproduciendo",
		KeyStateStopped:  "En pausa",
		KeyStateIdle:     "Inactivo",
		KeyModeNative:    "Nativa",
		KeyModeNeural:    "IA",
		KeyModeSilent:    "Silenciosa",
		KeySearch:        "Buscar frases",
		KeyCopied:        "Frase copiada",
		KeyCopyFailed:    "No se pudo copiar: %v",
		KeyReloaded:      "Documento recargado",
		KeyResumed:       "Reanudado en la frase %d",
		KeyNoMatch:       "Sin resultados para %q",
		KeyTheme:         "Tema %s",
		KeyNarrationFail: "Falló la narración: %v",
	},
	"ru-RU": {
		KeyLoading:       "Обработка %s…",
		KeyErrorTitle:    "Не удалось открыть документ",
		KeyEmptyTitle:    "Нечего читать",
		KeyEmptyMessage:  "В этом документе не найдено читаемых предложений.",
		KeyChapter:       "Глава %s",
		KeySpeed:         "Скорость %s",
		KeyVoice:         "Голос %s",
		KeyStatePlaying:  "Воспроизведение",
		KeyStateStopped:  "Пауза",
		KeyStateIdle:     "Ожидание",
		KeyModeNative:    "Системный",
		KeyModeNeural:    "ИИ",
		KeyModeSilent:    "Без звука",
		KeySearch:        "Поиск предложений",
		KeyCopied:        "Предложение скопировано",
		KeyCopyFailed:    "Не удалось скопировать: %v",
		KeyReloaded:      "Документ перезагружен",
		KeyResumed:       "Продолжено с предложения %d",
		KeyNoMatch:       "Нет совпадений для %q",
		KeyTheme:         "Тема %s",
		KeyNarrationFail: "Ошибка озвучивания: %v",
	},
}
