// Package i18n holds the API message catalog and language negotiation.
package i18n

import (
	"context"
	"strings"

	"golang.org/x/text/language"
)

const Default = "en"

// Supported lists the catalog languages; the first one is the fallback.
var Supported = []string{"en", "fr", "de", "es"}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.French,
	language.German,
	language.Spanish,
})

var messages = map[string]map[string]string{
	"en": {
		"required":              "Required",
		"invalid_email":         "Invalid email address",
		"too_short":             "Too short",
		"invalid_choice":        "Invalid value",
		"must_be_positive":      "Must be positive",
		"out_of_range":          "Out of range",
		"unauthorized":          "Authentication required",
		"forbidden":             "You are not allowed to perform this action",
		"not_found":             "Resource not found",
		"validation_failed":     "Validation failed",
		"invalid_json":          "Invalid request body",
		"invalid_id":            "Invalid identifier",
		"internal_error":        "Internal server error",
		"rate_limited":          "Too many requests, try again later",
		"email_taken":           "An account with this email already exists",
		"invalid_credentials":   "Invalid email or password",
		"account_disabled":      "This account is disabled",
		"invalid_token":         "Invalid or expired token",
		"registered":            "Account created",
		"logged_in":             "Logged in",
		"logged_out":            "Logged out",
		"token_refreshed":       "Token refreshed",
		"password_changed":      "Password changed",
		"password_reset_sent":   "If the account exists, a reset link has been sent",
		"password_reset":        "Password reset",
		"profile_updated":       "Profile updated",
		"job_created":           "Job created",
		"job_updated":           "Job updated",
		"job_closed":            "Job closed",
		"job_deleted":           "Job deleted",
		"job_not_open":          "This job is not accepting applications",
		"candidate_created":     "Candidate profile created",
		"candidate_updated":     "Candidate profile updated",
		"candidate_deleted":     "Candidate profile deleted",
		"candidate_exists":      "You already have a candidate profile",
		"resume_uploaded":       "Resume uploaded",
		"invalid_file_type":     "Only PDF, DOC and DOCX files are accepted",
		"file_too_large":        "File is too large",
		"application_created":   "Application submitted",
		"application_updated":   "Application updated",
		"application_withdrawn": "Application withdrawn",
		"already_applied":       "You already applied to this job",
		"invalid_transition":    "This status change is not allowed",
		"company_created":       "Company created",
		"company_updated":       "Company updated",
		"company_taken":         "A company with this slug already exists",
		"user_updated":          "User updated",
		"user_deleted":          "User deleted",
		"agent_unavailable":     "The agent service is unavailable",
	},
	"fr": {
		"required":              "Requis",
		"invalid_email":         "Adresse e-mail invalide",
		"too_short":             "Trop court",
		"invalid_choice":        "Valeur invalide",
		"must_be_positive":      "Doit être positif",
		"out_of_range":          "Hors limites",
		"unauthorized":          "Authentification requise",
		"forbidden":             "Vous n'êtes pas autorisé à effectuer cette action",
		"not_found":             "Ressource introuvable",
		"validation_failed":     "Échec de la validation",
		"invalid_json":          "Corps de requête invalide",
		"invalid_id":            "Identifiant invalide",
		"internal_error":        "Erreur interne du serveur",
		"rate_limited":          "Trop de requêtes, réessayez plus tard",
		"email_taken":           "Un compte existe déjà avec cet e-mail",
		"invalid_credentials":   "E-mail ou mot de passe incorrect",
		"account_disabled":      "Ce compte est désactivé",
		"invalid_token":         "Jeton invalide ou expiré",
		"registered":            "Compte créé",
		"logged_in":             "Connecté",
		"logged_out":            "Déconnecté",
		"token_refreshed":       "Jeton renouvelé",
		"password_changed":      "Mot de passe modifié",
		"password_reset_sent":   "Si le compte existe, un lien de réinitialisation a été envoyé",
		"password_reset":        "Mot de passe réinitialisé",
		"profile_updated":       "Profil mis à jour",
		"job_created":           "Offre créée",
		"job_updated":           "Offre mise à jour",
		"job_closed":            "Offre clôturée",
		"job_deleted":           "Offre supprimée",
		"job_not_open":          "Cette offre n'accepte pas de candidatures",
		"candidate_created":     "Profil candidat créé",
		"candidate_updated":     "Profil candidat mis à jour",
		"candidate_deleted":     "Profil candidat supprimé",
		"candidate_exists":      "Vous avez déjà un profil candidat",
		"resume_uploaded":       "CV téléversé",
		"invalid_file_type":     "Seuls les fichiers PDF, DOC et DOCX sont acceptés",
		"file_too_large":        "Fichier trop volumineux",
		"application_created":   "Candidature envoyée",
		"application_updated":   "Candidature mise à jour",
		"application_withdrawn": "Candidature retirée",
		"already_applied":       "Vous avez déjà postulé à cette offre",
		"invalid_transition":    "Ce changement de statut n'est pas autorisé",
		"company_created":       "Entreprise créée",
		"company_updated":       "Entreprise mise à jour",
		"company_taken":         "Une entreprise utilise déjà cet identifiant",
		"user_updated":          "Utilisateur mis à jour",
		"user_deleted":          "Utilisateur supprimé",
		"agent_unavailable":     "Le service d'agent est indisponible",
	},
	"de": {
		"required":              "Erforderlich",
		"invalid_email":         "Ungültige E-Mail-Adresse",
		"too_short":             "Zu kurz",
		"invalid_choice":        "Ungültiger Wert",
		"must_be_positive":      "Muss positiv sein",
		"out_of_range":          "Außerhalb des gültigen Bereichs",
		"unauthorized":          "Anmeldung erforderlich",
		"forbidden":             "Sie dürfen diese Aktion nicht ausführen",
		"not_found":             "Ressource nicht gefunden",
		"validation_failed":     "Validierung fehlgeschlagen",
		"invalid_json":          "Ungültiger Anfrageinhalt",
		"invalid_id":            "Ungültige Kennung",
		"internal_error":        "Interner Serverfehler",
		"rate_limited":          "Zu viele Anfragen, bitte später erneut versuchen",
		"email_taken":           "Für diese E-Mail existiert bereits ein Konto",
		"invalid_credentials":   "E-Mail oder Passwort ungültig",
		"account_disabled":      "Dieses Konto ist deaktiviert",
		"invalid_token":         "Ungültiges oder abgelaufenes Token",
		"registered":            "Konto erstellt",
		"logged_in":             "Angemeldet",
		"logged_out":            "Abgemeldet",
		"token_refreshed":       "Token erneuert",
		"password_changed":      "Passwort geändert",
		"password_reset_sent":   "Falls das Konto existiert, wurde ein Link zum Zurücksetzen gesendet",
		"password_reset":        "Passwort zurückgesetzt",
		"profile_updated":       "Profil aktualisiert",
		"job_created":           "Stelle erstellt",
		"job_updated":           "Stelle aktualisiert",
		"job_closed":            "Stelle geschlossen",
		"job_deleted":           "Stelle gelöscht",
		"job_not_open":          "Diese Stelle nimmt keine Bewerbungen an",
		"candidate_created":     "Kandidatenprofil erstellt",
		"candidate_updated":     "Kandidatenprofil aktualisiert",
		"candidate_deleted":     "Kandidatenprofil gelöscht",
		"candidate_exists":      "Sie haben bereits ein Kandidatenprofil",
		"resume_uploaded":       "Lebenslauf hochgeladen",
		"invalid_file_type":     "Nur PDF-, DOC- und DOCX-Dateien sind erlaubt",
		"file_too_large":        "Datei ist zu groß",
		"application_created":   "Bewerbung eingereicht",
		"application_updated":   "Bewerbung aktualisiert",
		"application_withdrawn": "Bewerbung zurückgezogen",
		"already_applied":       "Sie haben sich bereits auf diese Stelle beworben",
		"invalid_transition":    "Dieser Statuswechsel ist nicht erlaubt",
		"company_created":       "Unternehmen erstellt",
		"company_updated":       "Unternehmen aktualisiert",
		"company_taken":         "Diese Unternehmenskennung ist bereits vergeben",
		"user_updated":          "Benutzer aktualisiert",
		"user_deleted":          "Benutzer gelöscht",
		"agent_unavailable":     "Der Agentendienst ist nicht erreichbar",
	},
	"es": {
		"required":              "Obligatorio",
		"invalid_email":         "Correo electrónico no válido",
		"too_short":             "Demasiado corto",
		"invalid_choice":        "Valor no válido",
		"must_be_positive":      "Debe ser positivo",
		"out_of_range":          "Fuera de rango",
		"unauthorized":          "Se requiere autenticación",
		"forbidden":             "No tiene permiso para realizar esta acción",
		"not_found":             "Recurso no encontrado",
		"validation_failed":     "La validación falló",
		"invalid_json":          "Cuerpo de la solicitud no válido",
		"invalid_id":            "Identificador no válido",
		"internal_error":        "Error interno del servidor",
		"rate_limited":          "Demasiadas solicitudes, inténtelo más tarde",
		"email_taken":           "Ya existe una cuenta con este correo",
		"invalid_credentials":   "Correo o contraseña incorrectos",
		"account_disabled":      "Esta cuenta está desactivada",
		"invalid_token":         "Token no válido o caducado",
		"registered":            "Cuenta creada",
		"logged_in":             "Sesión iniciada",
		"logged_out":            "Sesión cerrada",
		"token_refreshed":       "Token renovado",
		"password_changed":      "Contraseña cambiada",
		"password_reset_sent":   "Si la cuenta existe, se ha enviado un enlace de restablecimiento",
		"password_reset":        "Contraseña restablecida",
		"profile_updated":       "Perfil actualizado",
		"job_created":           "Oferta creada",
		"job_updated":           "Oferta actualizada",
		"job_closed":            "Oferta cerrada",
		"job_deleted":           "Oferta eliminada",
		"job_not_open":          "Esta oferta no acepta candidaturas",
		"candidate_created":     "Perfil de candidato creado",
		"candidate_updated":     "Perfil de candidato actualizado",
		"candidate_deleted":     "Perfil de candidato eliminado",
		"candidate_exists":      "Ya tiene un perfil de candidato",
		"resume_uploaded":       "Currículum subido",
		"invalid_file_type":     "Solo se aceptan archivos PDF, DOC y DOCX",
		"file_too_large":        "El archivo es demasiado grande",
		"application_created":   "Candidatura enviada",
		"application_updated":   "Candidatura actualizada",
		"application_withdrawn": "Candidatura retirada",
		"already_applied":       "Ya se postuló a esta oferta",
		"invalid_transition":    "Este cambio de estado no está permitido",
		"company_created":       "Empresa creada",
		"company_updated":       "Empresa actualizada",
		"company_taken":         "Ya existe una empresa con este identificador",
		"user_updated":          "Usuario actualizado",
		"user_deleted":          "Usuario eliminado",
		"agent_unavailable":     "El servicio de agentes no está disponible",
	},
}

// T translates code, falling back to English and then to the code itself.
func T(lang, code string) string {
	if m, ok := messages[Normalize(lang)]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[Default][code]; ok {
		return s
	}
	return code
}

// Normalize maps "fr-CA" or "FR" to a supported base language, or "" if unsupported.
func Normalize(lang string) string {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(lang)), "-")
	base, _, _ = strings.Cut(base, "_")
	if _, ok := messages[base]; ok {
		return base
	}
	return ""
}

// DetectLanguage picks the best supported language from an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}

type ctxKey struct{}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFromContext returns the negotiated language or Default.
func LangFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return Default
}
