package dul

import "github.com/oceanus-health/dicomcore/pdu"

// NegotiatePresentationContexts builds the AC presentation context list for
// an accepted association, evaluating each proposed context independently
// per spec.md §4.7.
//
// Selection walks cfg's transfer syntax preference order, not the
// proposer's offer order: for each proposed context, the first entry of
// cfg.SupportedTransferSyntaxes that also appears in the proposal's offered
// list wins. A proposal can offer its own preferred syntax first and still
// lose to one the SCP likes better, as long as the SCP also supports it.
func NegotiatePresentationContexts(cfg Config, proposed []pdu.PresentationContextRQ) []pdu.PresentationContextAC {
	result := make([]pdu.PresentationContextAC, 0, len(proposed))
	for _, pc := range proposed {
		result = append(result, negotiateOne(cfg, pc))
	}
	return result
}

func negotiateOne(cfg Config, pc pdu.PresentationContextRQ) pdu.PresentationContextAC {
	if !cfg.supportsAbstractSyntax(pc.AbstractSyntax) {
		return pdu.PresentationContextAC{ID: pc.ID, Result: pdu.ResultAbstractSyntaxNotSupported}
	}

	offered := make(map[string]bool, len(pc.TransferSyntaxes))
	for _, ts := range pc.TransferSyntaxes {
		offered[ts] = true
	}

	for _, preferred := range cfg.SupportedTransferSyntaxes {
		if offered[preferred] {
			return pdu.PresentationContextAC{ID: pc.ID, Result: pdu.ResultAcceptance, TransferSyntax: preferred}
		}
	}

	return pdu.PresentationContextAC{ID: pc.ID, Result: pdu.ResultTransferSyntaxesNotSupported}
}
