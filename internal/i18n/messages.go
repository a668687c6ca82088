package i18n

// Message keys are the English text.
const (
	MsgRegistered         = "Registration successful! Welcome to TingGo."
	MsgAccountCreation    = "Account creation failed. Please try again."
	MsgDuplicateEmail     = "An account with this email already exists."
	MsgInvalidCredentials = "Invalid credentials."
	MsgMissingCredentials = "Please enter both email and password."
	MsgWelcomeBack        = "Welcome back, %s!"
	MsgLoggedOut          = "You have been logged out."
	MsgResetSent          = "Password reset email sent. Please check your inbox."
	MsgResetFailed        = "Failed to send password reset email."
	MsgEmailRequired      = "Please enter your email address."
	MsgPasswordChanged    = "Password changed successfully."
	MsgPasswordFailed     = "Failed to update password."
	MsgProfileUpdated     = "Profile updated successfully!"
	MsgProfileFailed      = "Please correct the errors below."
	MsgAccessDenied       = "Access denied. %s privileges required."
	MsgTooManyRequests    = "Too many requests. Please try again later."
	MsgFieldRequired      = "This field is required."
	MsgFieldEmail         = "Enter a valid email address."
	MsgFieldURL           = "Enter a valid URL."
	MsgFieldMax           = "Ensure this value has at most %s characters."
	MsgFieldMin           = "Ensure this value has at least %s characters."
	MsgFieldChoice        = "Select a valid choice."
	MsgPasswordMismatch   = "The two password fields didn't match."
	MsgAvatarType         = "Upload a JPEG or PNG image."
	MsgAvatarSize         = "Image file too large (maximum 5 MB)."
	MsgFieldInvalid       = "Enter a valid value."
)

type translation struct {
	es string
	ht string
}

var translations = map[string]translation{
	MsgRegistered:         {es: "¡Registro exitoso! Bienvenido a TingGo.", ht: "Enskripsyon reyisi! Byenvini sou TingGo."},
	MsgAccountCreation:    {es: "No se pudo crear la cuenta. Inténtelo de nuevo.", ht: "Nou pa t kapab kreye kont lan. Tanpri eseye ankò."},
	MsgDuplicateEmail:     {es: "Ya existe una cuenta con este correo electrónico.", ht: "Gen yon kont ki deja egziste ak imèl sa a."},
	MsgInvalidCredentials: {es: "Credenciales inválidas.", ht: "Idantifyan yo pa valab."},
	MsgMissingCredentials: {es: "Introduzca el correo electrónico y la contraseña.", ht: "Tanpri antre imèl ak modpas ou."},
	MsgWelcomeBack:        {es: "¡Bienvenido de nuevo, %s!", ht: "Byenvini ankò, %s!"},
	MsgLoggedOut:          {es: "Ha cerrado la sesión.", ht: "Ou dekonekte."},
	MsgResetSent:          {es: "Correo de restablecimiento enviado. Revise su bandeja de entrada.", ht: "Nou voye imèl pou chanje modpas la. Tanpri tcheke bwat ou."},
	MsgResetFailed:        {es: "No se pudo enviar el correo de restablecimiento.", ht: "Nou pa t kapab voye imèl pou chanje modpas la."},
	MsgEmailRequired:      {es: "Introduzca su correo electrónico.", ht: "Tanpri antre adrès imèl ou."},
	MsgPasswordChanged:    {es: "Contraseña cambiada correctamente.", ht: "Modpas la chanje."},
	MsgPasswordFailed:     {es: "No se pudo actualizar la contraseña.", ht: "Nou pa t kapab mete modpas la ajou."},
	MsgProfileUpdated:     {es: "¡Perfil actualizado correctamente!", ht: "Pwofil la mete ajou!"},
	MsgProfileFailed:      {es: "Corrija los errores a continuación.", ht: "Tanpri korije erè ki anba yo."},
	MsgAccessDenied:       {es: "Acceso denegado. Se requieren privilegios de %s.", ht: "Aksè refize. Ou bezwen privilèj %s."},
	MsgTooManyRequests:    {es: "Demasiadas solicitudes. Inténtelo más tarde.", ht: "Twòp demand. Tanpri eseye pita."},
	MsgFieldRequired:      {es: "Este campo es obligatorio.", ht: "Chan sa a obligatwa."},
	MsgFieldEmail:         {es: "Introduzca una dirección de correo válida.", ht: "Antre yon adrès imèl ki valab."},
	MsgFieldURL:           {es: "Introduzca una URL válida.", ht: "Antre yon URL ki valab."},
	MsgFieldMax:           {es: "Asegúrese de que este valor tenga como máximo %s caracteres.", ht: "Valè sa a pa dwe depase %s karaktè."},
	MsgFieldMin:           {es: "Asegúrese de que este valor tenga al menos %s caracteres.", ht: "Valè sa a dwe gen omwen %s karaktè."},
	MsgFieldChoice:        {es: "Seleccione una opción válida.", ht: "Chwazi yon opsyon ki valab."},
	MsgPasswordMismatch:   {es: "Los dos campos de contraseña no coinciden.", ht: "De modpas yo pa menm."},
	MsgAvatarType:         {es: "Suba una imagen JPEG o PNG.", ht: "Telechaje yon imaj JPEG oswa PNG."},
	MsgAvatarSize:         {es: "Imagen demasiado grande (máximo 5 MB).", ht: "Imaj la twò gwo (maksimòm 5 MB)."},
	MsgFieldInvalid:       {es: "Introduzca un valor válido.", ht: "Antre yon valè ki valab."},
}
