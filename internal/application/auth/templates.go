package auth

import "fmt"

const otpEmailBody = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2e7d32;">%s</h2>
  <p>%s</p>
  <div style="background: #f8f9fa; padding: 20px; text-align: center; margin: 20px 0; border-radius: 8px;">
    <span style="font-size: 32px; font-weight: bold; color: #2e7d32; letter-spacing: 3px;">%s</span>
  </div>
  <p>This OTP will expire in 5 minutes.</p>
  <p>If you didn't request this, please ignore this email.</p>
  <hr style="margin: 30px 0; border: none; border-top: 1px solid #eee;">
  <p style="color: #666; font-size: 14px;">AgroChain - Connecting Agriculture Supply Chain</p>
</div>`

func signupOTPEmail(code string) (subject, body string) {
	return "AgroChain - Email Verification OTP",
		fmt.Sprintf(otpEmailBody, "Welcome to AgroChain!", "Your email verification OTP is:", code)
}

func loginOTPEmail(code string) (subject, body string) {
	return "AgroChain - Login OTP",
		fmt.Sprintf(otpEmailBody, "AgroChain Login", "Your login OTP is:", code)
}
