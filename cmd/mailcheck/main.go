// mailcheck verifica la configuración de correo usada para el correo de bienvenida.
//
// Uso: go run ./cmd/mailcheck [-to destinatario@dominio.com]
// Imprime la configuración (contraseña ofuscada), valida credenciales abriendo una sesión SMTP
// y, si se indica -to, envía un correo de prueba.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/gomail.v2"

	inframail "github.com/jhoicas/exhibition-api/internal/infrastructure/mail"
	"github.com/jhoicas/exhibition-api/pkg/config"
)

func main() {
	to := flag.String("to", "", "destinatario del correo de prueba (opcional)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	mc := cfg.Mail

	line := strings.Repeat("=", 60)
	fmt.Println(line)
	fmt.Println("EMAIL CONFIGURATION TEST")
	fmt.Println(line)
	fmt.Printf("EMAIL_BACKEND:       %s\n", mc.Backend)
	fmt.Printf("EMAIL_HOST:          %s\n", mc.Host)
	fmt.Printf("EMAIL_PORT:          %d\n", mc.Port)
	fmt.Printf("EMAIL_USE_SSL:       %t\n", mc.UseSSL)
	fmt.Printf("EMAIL_HOST_USER:     %s\n", mc.Username)
	fmt.Printf("EMAIL_HOST_PASSWORD: %s\n", mc.MaskedPassword())
	fmt.Printf("DEFAULT_FROM_EMAIL:  %s\n", mc.From)
	fmt.Println()

	if mc.Backend == config.MailBackendConsole {
		fmt.Println("WARNING: backend de consola, los correos se escriben en el log y no se envían.")
		fmt.Println("Para enviar correos reales configure EMAIL_BACKEND=smtp.")
		os.Exit(0)
	}

	if mc.Username == "" || mc.Password == "" {
		fmt.Fprintln(os.Stderr, "ERROR: credenciales no configuradas (EMAIL_HOST_USER, EMAIL_HOST_PASSWORD).")
		os.Exit(1)
	}

	sender := inframail.NewSMTPSender(mc)
	if err := sender.Check(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: no se pudo autenticar contra %s:%d: %v\n", mc.Host, mc.Port, err)
		os.Exit(1)
	}
	fmt.Println("Configuración OK: sesión SMTP autenticada.")

	if *to == "" {
		fmt.Println("Sin -to: se omite el correo de prueba.")
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", mc.From)
	msg.SetHeader("To", *to)
	msg.SetHeader("Subject", "Test Email from Exhibition Project")
	msg.SetBody("text/plain", "This is a test email. If you received this, your email configuration is working!")

	fmt.Printf("Enviando correo de prueba a %s...\n", *to)
	if err := sender.Send(msg); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR enviando correo: %v\n", err)
		fmt.Fprintln(os.Stderr, "Revise la contraseña de aplicación, bloqueos del proveedor, la red y EMAIL_HOST_USER.")
		os.Exit(1)
	}
	fmt.Println("Correo enviado. Revise la bandeja de entrada (y spam).")
}
