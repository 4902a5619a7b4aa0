// Package charge authorizes synthetic card charges.
//
// # Evaluation
//
// [Evaluator.Charge] runs two steps and stops at the first failure:
//
//   - The fraud gate scores the charge against an external fraud model when
//     [Config.FraudDetectionEnabled] is set. The score is logged only; a model
//     that cannot be reached blocks the charge with [ErrFraudCheckUnavailable].
//     A context cancelled by the caller is returned as ctx.Err() instead.
//   - The [CardValidator] checks the card number (format and Luhn checksum),
//     accepts only visa and mastercard, and rejects cards whose expiration
//     month is in the past.
//
// Approved charges receive a fresh random transaction identifier. Rejections
// are [*ChargeError] values; [IsClientFault] tells them apart from internal
// failures.
//
// # HTTP
//
// [NewChargeHandler] exposes any [Charger] as `POST /charge`. Options such as
// [WithSignatureVerifier], [WithRequireSignedRequests] and [WithAuthenticator]
// add signed-request and API key checks in front of it. The [Merchant]
// resolved from the API key is stored in the [RequestContext] and tagged on
// every log record of the request.
package charge
