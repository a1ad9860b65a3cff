package common

// AccessTokenHeaderName is the HTTP header used to carry the access token
// on requests that do not use the Authorization bearer form.
const AccessTokenHeaderName = "access_token"

// AccessTokenCookieName is the cookie the browser client stores the access
// token in; the route guard reads it when no header is present.
const AccessTokenCookieName = "access_token"
