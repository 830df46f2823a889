package usecase

const otpIssuedEmailTemplate = `
<p>Hi {{.full_name}},</p>
<p>Your {{.reason}} code is:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px;">{{.code}}</p>
<p>The code expires in {{.minutes}} minutes. If you did not request it, you can ignore this email.</p>
<p>{{.company_name}} &middot; {{.support_email}} &middot; {{.year}}</p>
`

const accountLockedEmailTemplate = `
<p>Hi {{.full_name}},</p>
<p>We noticed {{.attempts}} failed {{.scope}} attempts on your account, so {{.scope}} access is paused until {{.locked_until}}.</p>
<p>If this was you, simply wait and try again. If not, please reset your password or contact the front desk.</p>
<p>{{.company_name}} &middot; {{.support_email}} &middot; {{.year}}</p>
`
